package persistence_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/velden/nodion/pkg/persistence"
)

func TestStandardizedErrors(t *testing.T) {
	t.Parallel()

	t.Run("error checking functions work correctly", func(t *testing.T) {
		workflowErr := persistence.NewWorkflowError("WorkflowByID", "workflow-123", persistence.ErrWorkflowNotFound)
		executionErr := persistence.NewExecutionError("ExecutionByID", "exec-456", persistence.ErrExecutionNotFound)

		assert.True(t, persistence.IsWorkflowNotFound(workflowErr))
		assert.True(t, persistence.IsExecutionNotFound(executionErr))

		// Test error unwrapping
		assert.True(t, errors.Is(workflowErr, persistence.ErrWorkflowNotFound))
		assert.True(t, errors.Is(executionErr, persistence.ErrExecutionNotFound))
	})

	t.Run("workflow error contains context", func(t *testing.T) {
		err := persistence.NewWorkflowError("DeleteWorkflow", "workflow-123", persistence.ErrWorkflowNotFound)

		assert.Contains(t, err.Error(), "DeleteWorkflow")
		assert.Contains(t, err.Error(), "workflow-123")
		assert.Contains(t, err.Error(), "workflow not found")
	})

	t.Run("execution error contains context", func(t *testing.T) {
		err := persistence.NewExecutionError("SaveExecution", "exec-456", persistence.ErrExecutionNotFound)

		assert.Contains(t, err.Error(), "SaveExecution")
		assert.Contains(t, err.Error(), "exec-456")
		assert.Contains(t, err.Error(), "execution not found")
	})

	t.Run("already exists is distinguishable", func(t *testing.T) {
		err := persistence.NewWorkflowError("SaveWorkflow", "workflow-123", persistence.ErrWorkflowAlreadyExists)

		assert.True(t, persistence.IsWorkflowAlreadyExists(err))
		assert.False(t, persistence.IsWorkflowNotFound(err))
	})
}
