// Package protocol defines the contracts between the engine and pluggable
// node executors. All actual business logic (HTTP calls, transforms, email)
// lives behind these interfaces, supplied by the embedding application.
package protocol

import (
	"context"

	"github.com/velden/nodion/pkg/models"
)

// NodeExecutor runs one node type. The engine is the sole writer of context
// variables after an executor returns: executors report their wares through
// the returned result's Output instead of mutating the context directly.
type NodeExecutor interface {
	Execute(ctx context.Context, node *models.WorkflowNode, wctx *models.WorkflowContext) (*models.NodeExecutionResult, error)
}

// NodeValidator is an optional capability of a NodeExecutor. When present,
// the engine validates the node before executing it and fails the execution
// if the result is invalid.
type NodeValidator interface {
	Validate(ctx context.Context, node *models.WorkflowNode) (*models.ValidationResult, error)
}

// SchemaProvider is an optional capability of a NodeExecutor exposing a JSON
// schema for the node's Data payload. The registry checks node configuration
// against it before execution.
type SchemaProvider interface {
	ConfigSchema() map[string]any
}
