// Package log provides a node executor that writes a rendered message to the
// structured log, mainly for debugging workflow runs.
package log

import (
	"context"
	"log/slog"

	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/template"
)

type Executor struct {
	logger *slog.Logger
}

func NewExecutor(logger *slog.Logger) *Executor {
	return &Executor{
		logger: logger.With("module", "log_node"),
	}
}

func (e *Executor) Execute(_ context.Context, node *models.WorkflowNode, wctx *models.WorkflowContext) (*models.NodeExecutionResult, error) {
	message, _ := node.Data["message"].(string)

	rendered, err := template.RenderString(message, wctx)
	if err != nil {
		return nil, err
	}

	level, _ := node.Data["level"].(string)

	switch level {
	case "debug":
		e.logger.Debug(rendered, "node_id", node.ID)
	case "warn":
		e.logger.Warn(rendered, "node_id", node.ID)
	case "error":
		e.logger.Error(rendered, "node_id", node.ID)
	default:
		e.logger.Info(rendered, "node_id", node.ID)
	}

	return &models.NodeExecutionResult{
		Status: models.NodeStatusCompleted,
		Output: map[string]any{"message": rendered, "level": level},
	}, nil
}

func (e *Executor) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "Message to log. Supports templating against the execution context.",
			},
			"level": map[string]any{
				"type": "string",
				"enum": []string{"debug", "info", "warn", "error"},
			},
		},
		"required": []string{"message"},
	}
}
