// Package redis provides Redis-backed persistence for workflows and executions.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/persistence"
)

const (
	workflowKeyPrefix  = "nodion:workflows:"
	executionKeyPrefix = "nodion:executions:"

	healthCheckTimeout = 5 * time.Second
)

// Persistence implements the persistence.Persistence interface on top of Redis.
// Documents are stored as JSON strings under prefixed keys.
type Persistence struct {
	client redis.UniversalClient
}

// NewPersistence creates a Redis persistence layer from a connection URL
// such as redis://localhost:6379/0.
func NewPersistence(url string) (persistence.Persistence, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return &Persistence{client: redis.NewClient(opts)}, nil
}

// NewPersistenceWithClient wraps an existing Redis client. Used by tests.
func NewPersistenceWithClient(client redis.UniversalClient) persistence.Persistence {
	return &Persistence{client: client}
}

// Close closes the underlying Redis client.
func (rp *Persistence) Close(_ context.Context) error {
	return rp.client.Close()
}

// HealthCheck verifies connectivity by pinging the Redis server.
func (rp *Persistence) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	err := rp.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return nil
}

// Workflows returns all stored workflows.
func (rp *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	workflows := make([]*models.Workflow, 0)

	iter := rp.client.Scan(ctx, 0, workflowKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		id := strings.TrimPrefix(iter.Val(), workflowKeyPrefix)

		workflow, err := rp.WorkflowByID(ctx, id)
		if err != nil {
			if persistence.IsWorkflowNotFound(err) {
				continue
			}

			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan workflows: %w", err)
	}

	return workflows, nil
}

// WorkflowByID retrieves a workflow by its ID.
func (rp *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	body, err := rp.client.Get(ctx, workflowKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, persistence.NewWorkflowError("WorkflowByID", id, persistence.ErrWorkflowNotFound)
		}

		return nil, fmt.Errorf("failed to fetch workflow %s: %w", id, err)
	}

	var workflow models.Workflow

	err = json.Unmarshal([]byte(body), &workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow %s: %w", id, err)
	}

	return &workflow, nil
}

// SaveWorkflow stores a workflow, overwriting any previous version.
func (rp *Persistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	now := time.Now().UTC()
	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	data, err := json.Marshal(workflow)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %s: %w", workflow.ID, err)
	}

	err = rp.client.Set(ctx, workflowKeyPrefix+workflow.ID, data, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to save workflow %s: %w", workflow.ID, err)
	}

	return nil
}

// DeleteWorkflow removes a workflow by its ID. Deleting a missing workflow is not an error.
func (rp *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	err := rp.client.Del(ctx, workflowKeyPrefix+id).Err()
	if err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}

// Executions returns stored executions, optionally filtered by workflow ID.
func (rp *Persistence) Executions(ctx context.Context, workflowID string) ([]*models.WorkflowExecution, error) {
	executions := make([]*models.WorkflowExecution, 0)

	iter := rp.client.Scan(ctx, 0, executionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		id := strings.TrimPrefix(iter.Val(), executionKeyPrefix)

		execution, err := rp.ExecutionByID(ctx, id)
		if err != nil {
			if persistence.IsExecutionNotFound(err) {
				continue
			}

			return nil, err
		}

		if workflowID != "" && execution.WorkflowID != workflowID {
			continue
		}

		executions = append(executions, execution)
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan executions: %w", err)
	}

	return executions, nil
}

// ExecutionByID retrieves an execution by its ID.
func (rp *Persistence) ExecutionByID(ctx context.Context, id string) (*models.WorkflowExecution, error) {
	body, err := rp.client.Get(ctx, executionKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, persistence.NewExecutionError("ExecutionByID", id, persistence.ErrExecutionNotFound)
		}

		return nil, fmt.Errorf("failed to fetch execution %s: %w", id, err)
	}

	var execution models.WorkflowExecution

	err = json.Unmarshal([]byte(body), &execution)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution %s: %w", id, err)
	}

	return &execution, nil
}

// SaveExecution stores an execution, overwriting any previous version.
func (rp *Persistence) SaveExecution(ctx context.Context, execution *models.WorkflowExecution) error {
	data, err := json.Marshal(execution)
	if err != nil {
		return fmt.Errorf("failed to marshal execution %s: %w", execution.ID, err)
	}

	err = rp.client.Set(ctx, executionKeyPrefix+execution.ID, data, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to save execution %s: %w", execution.ID, err)
	}

	return nil
}
