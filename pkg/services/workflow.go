package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/persistence"
	"github.com/velden/nodion/pkg/registry"
)

// ErrWorkflowNotFound is returned when a workflow is not found.
var ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

// Workflow provides CRUD and validation over stored workflow definitions.
type Workflow struct {
	persistence persistence.Persistence
	validator   *validator.Validate
	registry    *registry.Registry
}

// NewWorkflow creates a new workflow service. The registry may be nil, in
// which case node types are not checked against registered executors.
func NewWorkflow(persistence persistence.Persistence, validate *validator.Validate, reg *registry.Registry) *Workflow {
	return &Workflow{
		persistence: persistence,
		validator:   validate,
		registry:    reg,
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List retrieves all stored workflows.
func (w *Workflow) List(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := w.persistence.Workflows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return workflows, nil
}

// FetchByID retrieves a workflow by its ID.
func (w *Workflow) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	return w.persistence.WorkflowByID(ctx, id)
}

// Create validates and stores a new workflow, assigning it a fresh ID.
func (w *Workflow) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow == nil {
		return nil, ErrWorkflowNil
	}

	if result := w.Validate(workflow); !result.Valid {
		return nil, NewValidationError("Create", "INVALID_WORKFLOW", result.Errors[0], ErrInvalidRequest)
	}

	now := time.Now().UTC()
	workflow.ID = uuid.New().String()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	err := w.persistence.SaveWorkflow(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	return workflow, nil
}

// Update modifies an existing workflow by its ID.
func (w *Workflow) Update(ctx context.Context, workflowID string, workflow *models.Workflow) (*models.Workflow, error) {
	existing, err := w.persistence.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if result := w.Validate(workflow); !result.Valid {
		return nil, NewValidationError("Update", "INVALID_WORKFLOW", result.Errors[0], ErrInvalidRequest)
	}

	workflow.ID = workflowID
	workflow.CreatedAt = existing.CreatedAt
	workflow.UpdatedAt = time.Now().UTC()

	err = w.persistence.SaveWorkflow(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}

	return workflow, nil
}

// Delete removes a workflow by its ID.
func (w *Workflow) Delete(ctx context.Context, workflowID string) error {
	if _, err := w.persistence.WorkflowByID(ctx, workflowID); err != nil {
		return err
	}

	err := w.persistence.DeleteWorkflow(ctx, workflowID)
	if err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}

	return nil
}

// Validate checks a workflow definition for structural problems without
// executing it: struct tags, at least one trigger node, unique node IDs and
// edge sources that reference known nodes. Edge targets referencing unknown
// nodes are accepted; they are skipped at traversal time.
func (w *Workflow) Validate(workflow *models.Workflow) *models.ValidationResult {
	result := &models.ValidationResult{Valid: true}

	if workflow == nil {
		return fail(result, ErrWorkflowNil.Error())
	}

	if w.validator != nil {
		if err := w.validator.Struct(workflow); err != nil {
			fail(result, err.Error())
		}
	}

	if len(workflow.Nodes) == 0 {
		return fail(result, ErrNodesRequired.Error())
	}

	if len(workflow.TriggerNodes()) == 0 {
		fail(result, ErrTriggerNodeRequired.Error())
	}

	seen := make(map[string]bool, len(workflow.Nodes))

	for _, node := range workflow.Nodes {
		if seen[node.ID] {
			fail(result, fmt.Sprintf("%s: %s", ErrDuplicateNodeID.Error(), node.ID))
		}

		seen[node.ID] = true

		if w.registry != nil && !node.IsTrigger() && !w.registry.Registered(node.Type) {
			fail(result, fmt.Sprintf("%s: %s", ErrUnknownNodeType.Error(), node.Type))
		}
	}

	for _, edge := range workflow.Edges {
		if !seen[edge.Source] {
			fail(result, fmt.Sprintf("%s: %s", ErrUnknownEdgeSource.Error(), edge.Source))
		}
	}

	return result
}

func fail(result *models.ValidationResult, message string) *models.ValidationResult {
	result.Valid = false
	result.Errors = append(result.Errors, message)

	return result
}
