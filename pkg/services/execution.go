package services

import (
	"context"
	"log/slog"

	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/persistence"
	"github.com/velden/nodion/pkg/workflow"
)

// Execution runs stored workflows through the engine and persists the
// resulting execution records.
type Execution struct {
	persistence persistence.Persistence
	executor    *workflow.Executor
	logger      *slog.Logger
}

// NewExecution creates a new execution service.
func NewExecution(persistence persistence.Persistence, executor *workflow.Executor, logger *slog.Logger) *Execution {
	return &Execution{
		persistence: persistence,
		executor:    executor,
		logger:      logger.With("module", "execution_service"),
	}
}

// Run loads a workflow by ID, executes it with the given input and persists
// the execution record. A failed run still returns the persisted execution
// alongside the execution error.
func (s *Execution) Run(ctx context.Context, workflowID string, input map[string]any) (*models.WorkflowExecution, error) {
	wf, err := s.persistence.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	execution, execErr := s.executor.Execute(ctx, wf, input)

	if execution != nil {
		if saveErr := s.persistence.SaveExecution(ctx, execution); saveErr != nil {
			s.logger.ErrorContext(ctx, "Failed to persist execution",
				"execution_id", execution.ID, "error", saveErr)
		}
	}

	return execution, execErr
}

// FetchByID retrieves an execution record by its ID.
func (s *Execution) FetchByID(ctx context.Context, id string) (*models.WorkflowExecution, error) {
	return s.persistence.ExecutionByID(ctx, id)
}

// ListByWorkflow retrieves execution records, optionally filtered by workflow ID.
func (s *Execution) ListByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowExecution, error) {
	return s.persistence.Executions(ctx, workflowID)
}
