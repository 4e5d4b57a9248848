package filewrite

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velden/nodion/pkg/models"
)

func TestExecute_WritesRenderedContent(t *testing.T) {
	executor := NewExecutor()
	dir := t.TempDir()

	wctx := models.NewWorkflowContext(map[string]any{"order_id": "o-42"})
	node := &models.WorkflowNode{
		ID:   "report",
		Type: "file_write",
		Data: map[string]any{
			"file_name": "report.json",
			"directory": dir,
			"content":   `{"order": "{{.vars.order_id}}"}`,
		},
	}

	result, err := executor.Execute(context.Background(), node, wctx)

	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusCompleted, result.Status)

	output, ok := result.Output.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "report.json"), output["file_path"])

	written, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"order": "o-42"}`, string(written))
}

func TestExecute_DefaultsToPreviousOutput(t *testing.T) {
	executor := NewExecutor()
	dir := t.TempDir()

	wctx := models.NewWorkflowContext(nil)
	wctx.RecordNodeOutput("fetch", map[string]any{"status": "ok"})

	node := &models.WorkflowNode{
		ID:   "dump",
		Type: "file_write",
		Data: map[string]any{
			"file_name": "output.json",
			"directory": dir,
		},
	}

	_, err := executor.Execute(context.Background(), node, wctx)
	require.NoError(t, err)

	written, err := os.ReadFile(filepath.Join(dir, "output.json"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(written, &decoded))
	assert.Equal(t, "ok", decoded["status"])
}

func TestExecute_RefusesToOverwrite(t *testing.T) {
	executor := NewExecutor()
	dir := t.TempDir()

	existing := filepath.Join(dir, "locked.json")
	require.NoError(t, os.WriteFile(existing, []byte("{}"), 0600))

	node := &models.WorkflowNode{
		ID:   "report",
		Type: "file_write",
		Data: map[string]any{
			"file_name": "locked.json",
			"directory": dir,
			"content":   "{}",
		},
	}

	_, err := executor.Execute(context.Background(), node, models.NewWorkflowContext(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	node.Data["overwrite"] = true

	_, err = executor.Execute(context.Background(), node, models.NewWorkflowContext(nil))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	executor := NewExecutor()

	valid, err := executor.Validate(context.Background(), &models.WorkflowNode{
		Data: map[string]any{"file_name": "out.json"},
	})
	require.NoError(t, err)
	assert.True(t, valid.Valid)

	invalid, err := executor.Validate(context.Background(), &models.WorkflowNode{Data: map[string]any{}})
	require.NoError(t, err)
	assert.False(t, invalid.Valid)
	assert.NotEmpty(t, invalid.Errors)
}
