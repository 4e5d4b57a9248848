// Package filewrite provides a node executor that writes rendered content to
// a file on the local filesystem.
package filewrite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/template"
)

type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

// Execute writes the node's rendered content to directory/file_name. When no
// content is configured, the previous node's output is serialized as JSON
// instead. Existing files are only replaced when overwrite is set.
func (e *Executor) Execute(_ context.Context, node *models.WorkflowNode, wctx *models.WorkflowContext) (*models.NodeExecutionResult, error) {
	fileName, _ := node.Data["file_name"].(string)
	directory, _ := node.Data["directory"].(string)
	overwrite, _ := node.Data["overwrite"].(bool)
	content, _ := node.Data["content"].(string)

	if directory == "" {
		directory = os.TempDir()
	}

	data, err := e.renderContent(content, wctx)
	if err != nil {
		return nil, err
	}

	fullPath := filepath.Join(directory, fileName)

	if !overwrite {
		if _, err := os.Stat(fullPath); err == nil {
			return nil, fmt.Errorf("file %s already exists and overwrite is false", fullPath)
		}
	}

	if err := os.MkdirAll(directory, 0750); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", directory, err)
	}

	if err := os.WriteFile(fullPath, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}

	return &models.NodeExecutionResult{
		Status: models.NodeStatusCompleted,
		Output: map[string]any{
			"file_path":     fullPath,
			"bytes_written": len(data),
		},
	}, nil
}

func (e *Executor) renderContent(content string, wctx *models.WorkflowContext) ([]byte, error) {
	if content != "" {
		rendered, err := template.RenderRaw(content, wctx)
		if err != nil {
			return nil, fmt.Errorf("failed to render content: %w", err)
		}

		return []byte(rendered), nil
	}

	data, err := json.MarshalIndent(wctx.Variables[models.LastOutputKey], "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal previous output: %w", err)
	}

	return data, nil
}

func (e *Executor) Validate(_ context.Context, node *models.WorkflowNode) (*models.ValidationResult, error) {
	fileName, _ := node.Data["file_name"].(string)
	if fileName == "" {
		return &models.ValidationResult{
			Valid:  false,
			Errors: []string{"'file_name' is required and must be a string"},
		}, nil
	}

	return &models.ValidationResult{Valid: true}, nil
}

func (e *Executor) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_name": map[string]any{
				"type":        "string",
				"description": "Name of the file to write",
			},
			"directory": map[string]any{
				"type":        "string",
				"description": "Target directory. Defaults to the system temp directory.",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Content to write. Supports templating against the execution context. Defaults to the previous node's output as JSON.",
			},
			"overwrite": map[string]any{
				"type":        "boolean",
				"description": "Replace the file if it already exists",
			},
		},
		"required": []string{"file_name"},
	}
}
