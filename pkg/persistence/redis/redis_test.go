package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/persistence"
)

func newTestPersistence(t *testing.T) persistence.Persistence {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})

	return NewPersistenceWithClient(client)
}

func testWorkflow(id string) *models.Workflow {
	return &models.Workflow{
		ID:   id,
		Name: "Test Workflow " + id,
		Nodes: []*models.WorkflowNode{
			{ID: "start", Type: models.NodeTypeTrigger, Name: "Start", Enabled: true},
		},
	}
}

func TestPersistence_WorkflowRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t)

	require.NoError(t, p.SaveWorkflow(ctx, testWorkflow("wf-1")))

	loaded, err := p.WorkflowByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "wf-1", loaded.ID)
	assert.Len(t, loaded.Nodes, 1)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestPersistence_WorkflowByID_NotFound(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t)

	_, err := p.WorkflowByID(ctx, "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestPersistence_Workflows(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t)

	workflows, err := p.Workflows(ctx)
	require.NoError(t, err)
	assert.Empty(t, workflows)

	require.NoError(t, p.SaveWorkflow(ctx, testWorkflow("wf-1")))
	require.NoError(t, p.SaveWorkflow(ctx, testWorkflow("wf-2")))

	workflows, err = p.Workflows(ctx)
	require.NoError(t, err)
	assert.Len(t, workflows, 2)
}

func TestPersistence_DeleteWorkflow(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t)

	require.NoError(t, p.SaveWorkflow(ctx, testWorkflow("wf-1")))
	require.NoError(t, p.DeleteWorkflow(ctx, "wf-1"))

	_, err := p.WorkflowByID(ctx, "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))

	// Deleting a missing workflow is a no-op.
	assert.NoError(t, p.DeleteWorkflow(ctx, "wf-1"))
}

func TestPersistence_ExecutionRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t)

	execution := models.NewWorkflowExecution("wf-1", map[string]any{"key": "value"})
	require.NoError(t, p.SaveExecution(ctx, execution))

	loaded, err := p.ExecutionByID(ctx, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, execution.ID, loaded.ID)
	assert.Equal(t, models.ExecutionStatusRunning, loaded.Status)
}

func TestPersistence_Executions_FilterByWorkflow(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t)

	first := models.NewWorkflowExecution("wf-1", nil)
	second := models.NewWorkflowExecution("wf-2", nil)
	require.NoError(t, p.SaveExecution(ctx, first))
	require.NoError(t, p.SaveExecution(ctx, second))

	executions, err := p.Executions(ctx, "wf-1")
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, first.ID, executions[0].ID)
}

func TestPersistence_HealthCheck(t *testing.T) {
	ctx := context.Background()

	server, err := miniredis.Run()
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	p := NewPersistenceWithClient(client)

	assert.NoError(t, p.HealthCheck(ctx))

	server.Close()
	assert.Error(t, p.HealthCheck(ctx))
}

func TestNewPersistence_InvalidURL(t *testing.T) {
	_, err := NewPersistence("not-a-url")
	assert.Error(t, err)
}
