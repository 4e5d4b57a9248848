// Package persistence provides data storage abstraction for workflows and executions.
package persistence

import (
	"context"

	"github.com/velden/nodion/pkg/models"
)

type Persistence interface {
	Workflows(ctx context.Context) ([]*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	DeleteWorkflow(ctx context.Context, id string) error

	Executions(ctx context.Context, workflowID string) ([]*models.WorkflowExecution, error)
	SaveExecution(ctx context.Context, execution *models.WorkflowExecution) error
	ExecutionByID(ctx context.Context, id string) (*models.WorkflowExecution, error)

	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
