// Package trigger provides the entry-point node executor. A trigger node
// performs no work of its own; it surfaces its configured payload as output
// so downstream conditions can branch on it.
package trigger

import (
	"context"

	"github.com/velden/nodion/pkg/models"
)

type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

// Execute passes the node's configured payload through as output. When no
// payload is configured, the caller-supplied input variables are surfaced
// instead so downstream edges can gate on them.
func (e *Executor) Execute(_ context.Context, node *models.WorkflowNode, wctx *models.WorkflowContext) (*models.NodeExecutionResult, error) {
	var output any

	if payload, ok := node.Data["payload"]; ok {
		output = payload
	} else {
		output = map[string]any(wctx.Variables)
	}

	return &models.NodeExecutionResult{
		Status: models.NodeStatusCompleted,
		Output: output,
	}, nil
}

func (e *Executor) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"payload": map[string]any{
				"type":        "object",
				"description": "Static payload surfaced as the trigger's output",
			},
		},
	}
}
