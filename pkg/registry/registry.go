// Package registry maps node-type strings to their executors. The registry
// is owned and populated by the embedding application and consumed read-only
// by the engine; it is always an explicit collaborator, never a process-wide
// singleton.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/velden/nodion/pkg/protocol"
)

// Registry holds the node executors available to an engine, keyed by node
// type.
type Registry struct {
	logger    *slog.Logger
	executors map[string]protocol.NodeExecutor
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger.With("module", "registry"),
		executors: make(map[string]protocol.NodeExecutor),
	}
}

// Register binds an executor to a node type, replacing any previous binding.
func (r *Registry) Register(nodeType string, executor protocol.NodeExecutor) {
	r.executors[nodeType] = executor
	r.logger.Debug("Registered node executor", "node_type", nodeType)
}

// Resolve returns the executor for nodeType. An unregistered type is a fatal,
// unrecoverable error for the execution that requested it.
func (r *Registry) Resolve(nodeType string) (protocol.NodeExecutor, error) {
	executor, ok := r.executors[nodeType]
	if !ok {
		return nil, fmt.Errorf("node type '%s' not registered", nodeType)
	}

	return executor, nil
}

// Registered reports whether nodeType has an executor.
func (r *Registry) Registered(nodeType string) bool {
	_, ok := r.executors[nodeType]

	return ok
}

// HealthCheck reports whether the registry is usable.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.executors) == 0 {
		return "No node executors registered", false
	}

	return fmt.Sprintf("%d node executors registered", len(r.executors)), true
}

// NodeTypes returns all registered node types.
func (r *Registry) NodeTypes() []string {
	types := make([]string, 0, len(r.executors))
	for nodeType := range r.executors {
		types = append(types, nodeType)
	}

	return types
}
