package registry

import (
	"fmt"

	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

// ValidateConfig checks a node's Data against the JSON schema advertised by
// its executor. Executors without a schema accept any configuration.
func (r *Registry) ValidateConfig(node *models.WorkflowNode) (*models.ValidationResult, error) {
	executor, err := r.Resolve(node.Type)
	if err != nil {
		return nil, err
	}

	provider, ok := executor.(protocol.SchemaProvider)
	if !ok {
		return &models.ValidationResult{Valid: true}, nil
	}

	schema := provider.ConfigSchema()
	if schema == nil {
		return &models.ValidationResult{Valid: true}, nil
	}

	data := node.Data
	if data == nil {
		data = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate config for node %s: %w", node.ID, err)
	}

	if result.Valid() {
		return &models.ValidationResult{Valid: true}, nil
	}

	validationErrors := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		validationErrors = append(validationErrors, resultErr.String())
	}

	return &models.ValidationResult{Valid: false, Errors: validationErrors}, nil
}
