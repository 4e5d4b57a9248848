package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/persistence"
	"github.com/velden/nodion/pkg/persistence/file"
	"github.com/velden/nodion/pkg/registry"
	"github.com/velden/nodion/pkg/workflow"
)

func newTestExecutionService(t *testing.T) (*Execution, persistence.Persistence) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := registry.NewRegistry(logger)
	reg.Register("trigger", noopExecutor{})
	reg.Register("log", noopExecutor{})

	store := file.NewPersistence(t.TempDir())
	executor := workflow.NewExecutor(reg, nil, logger)

	return NewExecution(store, executor, logger), store
}

func TestExecutionService_Run(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestExecutionService(t)

	wf := validWorkflow()
	wf.ID = "wf-1"
	require.NoError(t, store.SaveWorkflow(ctx, wf))

	execution, err := svc.Run(ctx, "wf-1", map[string]any{"key": "value"})
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)

	// The execution record is persisted.
	stored, err := svc.FetchByID(ctx, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, execution.ID, stored.ID)
	assert.Equal(t, "wf-1", stored.WorkflowID)
}

func TestExecutionService_Run_WorkflowNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestExecutionService(t)

	_, err := svc.Run(ctx, "missing", nil)
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestExecutionService_Run_FailedExecutionIsPersisted(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestExecutionService(t)

	// A workflow without triggers cannot be executed.
	wf := validWorkflow()
	wf.ID = "wf-1"
	wf.Nodes[0].Type = "log"
	require.NoError(t, store.SaveWorkflow(ctx, wf))

	execution, err := svc.Run(ctx, "wf-1", nil)
	require.Error(t, err)
	require.NotNil(t, execution)
	assert.Equal(t, models.ExecutionStatusFailed, execution.Status)

	stored, err := svc.FetchByID(ctx, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusFailed, stored.Status)
}

func TestExecutionService_ListByWorkflow(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestExecutionService(t)

	wf := validWorkflow()
	wf.ID = "wf-1"
	require.NoError(t, store.SaveWorkflow(ctx, wf))

	_, err := svc.Run(ctx, "wf-1", nil)
	require.NoError(t, err)
	_, err = svc.Run(ctx, "wf-1", nil)
	require.NoError(t, err)

	executions, err := svc.ListByWorkflow(ctx, "wf-1")
	require.NoError(t, err)
	assert.Len(t, executions, 2)

	executions, err = svc.ListByWorkflow(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, executions)
}
