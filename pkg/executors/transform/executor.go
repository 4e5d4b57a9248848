// Package transform provides a node executor that reshapes data by rendering
// a template expression against the execution context.
package transform

import (
	"context"
	"errors"

	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/template"
)

type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) Execute(_ context.Context, node *models.WorkflowNode, wctx *models.WorkflowContext) (*models.NodeExecutionResult, error) {
	expression, ok := node.Data["expression"].(string)
	if !ok {
		return nil, errors.New("missing required field 'expression'")
	}

	output, err := template.RenderWithContext(expression, wctx)
	if err != nil {
		return nil, err
	}

	return &models.NodeExecutionResult{
		Status: models.NodeStatusCompleted,
		Output: output,
	}, nil
}

func (e *Executor) Validate(_ context.Context, node *models.WorkflowNode) (*models.ValidationResult, error) {
	if _, ok := node.Data["expression"].(string); !ok {
		return &models.ValidationResult{
			Valid:  false,
			Errors: []string{"'expression' is required and must be a string"},
		}, nil
	}

	return &models.ValidationResult{Valid: true}, nil
}

func (e *Executor) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"expression": map[string]any{
				"type":        "string",
				"description": "Template expression producing the node's output",
			},
		},
		"required": []string{"expression"},
	}
}
