// Package models defines the core domain models for graph-based workflow execution.
package models

import (
	"encoding/json"
	"time"
)

// NodeTypeTrigger marks a node as a valid entry point for graph traversal.
// A workflow must contain at least one trigger node to be executable.
const NodeTypeTrigger = "trigger"

// Workflow is a declarative workflow definition: a set of nodes connected by
// directed, optionally conditional edges. It is immutable input to an
// execution; the engine never mutates it.
type Workflow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"                  validate:"required,min=3"`
	Description string          `json:"description,omitempty"`
	Nodes       []*WorkflowNode `json:"nodes"                 validate:"required,min=1,dive"`
	Edges       []*WorkflowEdge `json:"edges"                 validate:"dive"`
	Variables   map[string]any  `json:"variables,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// WorkflowNode is a unit of work in a workflow graph. Type selects the
// executor that runs it; Data is opaque node configuration interpreted only
// by that executor.
type WorkflowNode struct {
	ID      string         `json:"id"   validate:"required"`
	Type    string         `json:"type" validate:"required"`
	Name    string         `json:"name,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Enabled bool           `json:"enabled"`
}

// UnmarshalJSON decodes a node, treating an omitted enabled field as true so
// that plain {id, type, data} definitions execute as written. Only an
// explicit "enabled": false disables a node.
func (n *WorkflowNode) UnmarshalJSON(data []byte) error {
	type alias WorkflowNode

	wire := struct {
		*alias

		Enabled *bool `json:"enabled"`
	}{alias: (*alias)(n)}

	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	n.Enabled = wire.Enabled == nil || *wire.Enabled

	return nil
}

// IsTrigger reports whether the node is an entry point of the graph.
func (n *WorkflowNode) IsTrigger() bool {
	return n.Type == NodeTypeTrigger
}

// WorkflowEdge connects a source node to a target node. An edge with an
// empty Condition is traversed unconditionally after its source completes.
type WorkflowEdge struct {
	ID        string `json:"id"`
	Source    string `json:"source" validate:"required"`
	Target    string `json:"target" validate:"required"`
	Condition string `json:"condition,omitempty"`
}

// TriggerNodes returns the workflow's trigger nodes in declaration order.
func (w *Workflow) TriggerNodes() []*WorkflowNode {
	triggers := make([]*WorkflowNode, 0, 1)

	for _, node := range w.Nodes {
		if node.IsTrigger() {
			triggers = append(triggers, node)
		}
	}

	return triggers
}

// NodeByID returns the node with the given id, or nil when absent.
func (w *Workflow) NodeByID(id string) *WorkflowNode {
	for _, node := range w.Nodes {
		if node.ID == id {
			return node
		}
	}

	return nil
}
