package httprequest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velden/nodion/pkg/models"
)

func TestExecute_JSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	}))
	defer server.Close()

	executor := NewExecutor()

	node := &models.WorkflowNode{
		ID:   "fetch",
		Type: "httprequest",
		Data: map[string]any{"url": server.URL},
	}

	result, err := executor.Execute(context.Background(), node, models.NewWorkflowContext(nil))

	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusCompleted, result.Status)

	output, ok := result.Output.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, output["status_code"])
	assert.Equal(t, map[string]any{"status": "ok"}, output["body"])
}

func TestExecute_TemplatedURLAndBody(t *testing.T) {
	var receivedBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/o-42", r.URL.Path)
		assert.Equal(t, "token-abc", r.Header.Get("Authorization"))

		raw, _ := io.ReadAll(r.Body)
		receivedBody = string(raw)

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	executor := NewExecutor()

	wctx := models.NewWorkflowContext(map[string]any{
		"order_id": "o-42",
		"token":    "token-abc",
	})

	node := &models.WorkflowNode{
		ID:   "submit",
		Type: "httprequest",
		Data: map[string]any{
			"url":    server.URL + "/orders/{{.vars.order_id}}",
			"method": "POST",
			"body":   `{"order": "{{.vars.order_id}}"}`,
			"headers": map[string]any{
				"Authorization": "{{.vars.token}}",
			},
		},
	}

	result, err := executor.Execute(context.Background(), node, wctx)

	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusCompleted, result.Status)
	assert.JSONEq(t, `{"order": "o-42"}`, receivedBody)
}

func TestExecute_ErrorStatusFailsNode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	executor := NewExecutor()

	node := &models.WorkflowNode{
		ID:   "fetch",
		Type: "httprequest",
		Data: map[string]any{"url": server.URL},
	}

	result, err := executor.Execute(context.Background(), node, models.NewWorkflowContext(nil))

	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusFailed, result.Status)
	assert.Contains(t, result.Error, "502")
}

func TestExecute_MissingURL(t *testing.T) {
	executor := NewExecutor()

	node := &models.WorkflowNode{ID: "fetch", Type: "httprequest", Data: map[string]any{}}

	_, err := executor.Execute(context.Background(), node, models.NewWorkflowContext(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url")
}

func TestValidate(t *testing.T) {
	executor := NewExecutor()

	valid, err := executor.Validate(context.Background(), &models.WorkflowNode{
		Data: map[string]any{"url": "https://example.com"},
	})
	require.NoError(t, err)
	assert.True(t, valid.Valid)

	invalid, err := executor.Validate(context.Background(), &models.WorkflowNode{Data: map[string]any{}})
	require.NoError(t, err)
	assert.False(t, invalid.Valid)
}
