package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/persistence"
)

func testWorkflow(id string) *models.Workflow {
	return &models.Workflow{
		ID:   id,
		Name: "Test Workflow " + id,
		Nodes: []*models.WorkflowNode{
			{ID: "start", Type: models.NodeTypeTrigger, Name: "Start", Enabled: true},
			{ID: "log", Type: "log", Name: "Log", Data: map[string]any{"message": "hello"}, Enabled: true},
		},
		Edges: []*models.WorkflowEdge{
			{ID: "start-log", Source: "start", Target: "log"},
		},
	}
}

func TestPersistence_WorkflowRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	workflow := testWorkflow("wf-1")
	require.NoError(t, p.SaveWorkflow(ctx, workflow))

	loaded, err := p.WorkflowByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "wf-1", loaded.ID)
	assert.Equal(t, "Test Workflow wf-1", loaded.Name)
	assert.Len(t, loaded.Nodes, 2)
	assert.Len(t, loaded.Edges, 1)
	assert.False(t, loaded.CreatedAt.IsZero())
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestPersistence_WorkflowByID_NotFound(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	_, err := p.WorkflowByID(ctx, "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestPersistence_Workflows(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

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
	p := NewPersistence(t.TempDir())

	require.NoError(t, p.SaveWorkflow(ctx, testWorkflow("wf-1")))
	require.NoError(t, p.DeleteWorkflow(ctx, "wf-1"))

	_, err := p.WorkflowByID(ctx, "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))

	// Deleting a missing workflow is a no-op.
	assert.NoError(t, p.DeleteWorkflow(ctx, "wf-1"))
}

func TestPersistence_ExecutionRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	execution := models.NewWorkflowExecution("wf-1", map[string]any{"key": "value"})
	require.NoError(t, p.SaveExecution(ctx, execution))

	loaded, err := p.ExecutionByID(ctx, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, execution.ID, loaded.ID)
	assert.Equal(t, "wf-1", loaded.WorkflowID)
	assert.Equal(t, models.ExecutionStatusRunning, loaded.Status)
	assert.Equal(t, "value", loaded.Input["key"])
}

func TestPersistence_Executions_FilterByWorkflow(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	first := models.NewWorkflowExecution("wf-1", nil)
	second := models.NewWorkflowExecution("wf-2", nil)
	require.NoError(t, p.SaveExecution(ctx, first))
	require.NoError(t, p.SaveExecution(ctx, second))

	executions, err := p.Executions(ctx, "wf-1")
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, first.ID, executions[0].ID)

	all, err := p.Executions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPersistence_ExecutionByID_NotFound(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	_, err := p.ExecutionByID(ctx, "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsExecutionNotFound(err))
}

func TestPersistence_HealthCheck(t *testing.T) {
	ctx := context.Background()

	p := NewPersistence(t.TempDir())
	assert.NoError(t, p.HealthCheck(ctx))

	broken := NewPersistence("/nonexistent/nodion-data")
	assert.Error(t, broken.HealthCheck(ctx))
}

func TestNewPersistence_StripsFileScheme(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	p := NewPersistence("file://" + dir)
	require.NoError(t, p.SaveWorkflow(ctx, testWorkflow("wf-1")))

	loaded, err := p.WorkflowByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "wf-1", loaded.ID)
}
