package models

import "fmt"

// Reserved variable keys written by the engine after every node execution.
// Callers must not depend on them as durable keys beyond a single run.
const LastOutputKey = "last_output"

// NodeOutputKey returns the reserved variable key holding a node's output.
func NodeOutputKey(nodeID string) string {
	return fmt.Sprintf("node_%s_output", nodeID)
}

// WorkflowContext is the mutable, execution-scoped state shared by all nodes
// of one run. It is created fresh per execution and mutated only by the
// engine; node executors read it and return their output instead of writing
// variables themselves.
type WorkflowContext struct {
	Variables   map[string]any    `json:"variables"`
	Secrets     map[string]string `json:"secrets,omitempty"`
	Environment map[string]string `json:"environment,omitempty"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
}

// NewWorkflowContext creates a context seeded with each top-level key of
// input as a variable.
func NewWorkflowContext(input map[string]any) *WorkflowContext {
	variables := make(map[string]any, len(input))
	for k, v := range input {
		variables[k] = v
	}

	return &WorkflowContext{
		Variables:   variables,
		Secrets:     make(map[string]string),
		Environment: make(map[string]string),
		Metadata:    make(map[string]any),
	}
}

// Variable returns the value stored under key and whether it is present.
func (c *WorkflowContext) Variable(key string) (any, bool) {
	v, ok := c.Variables[key]

	return v, ok
}

// SetVariable stores value under key, replacing any previous value.
func (c *WorkflowContext) SetVariable(key string, value any) {
	if c.Variables == nil {
		c.Variables = make(map[string]any)
	}

	c.Variables[key] = value
}

// RecordNodeOutput stores output under the node's reserved output key and
// under last_output.
func (c *WorkflowContext) RecordNodeOutput(nodeID string, output any) {
	c.SetVariable(NodeOutputKey(nodeID), output)
	c.SetVariable(LastOutputKey, output)
}
