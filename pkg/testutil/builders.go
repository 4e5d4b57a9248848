// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/google/uuid"

	"github.com/velden/nodion/pkg/models"
)

// CreateTestNode creates a test WorkflowNode with default values that can be overridden.
func CreateTestNode(overrides ...func(*models.WorkflowNode)) *models.WorkflowNode {
	node := &models.WorkflowNode{
		ID:      uuid.New().String(),
		Type:    "log",
		Name:    "Test Node",
		Data:    map[string]any{"message": "test", "level": "info"},
		Enabled: true,
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithTriggerNode configures the node as a trigger node.
func WithTriggerNode() func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Type = models.NodeTypeTrigger
		n.Data = nil
	}
}

// WithID sets the node ID.
func WithID(id string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.ID = id
	}
}

// WithType sets the node type.
func WithType(nodeType string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Type = nodeType
	}
}

// WithName sets the node name.
func WithName(name string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Name = name
	}
}

// WithData sets the node configuration data.
func WithData(data map[string]any) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Data = data
	}
}

// WithEnabled sets the node enabled status.
func WithEnabled(enabled bool) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Enabled = enabled
	}
}

// CreateTestEdge creates an edge between two node IDs.
func CreateTestEdge(source, target string, overrides ...func(*models.WorkflowEdge)) *models.WorkflowEdge {
	edge := &models.WorkflowEdge{
		ID:     source + "-" + target,
		Source: source,
		Target: target,
	}

	for _, override := range overrides {
		override(edge)
	}

	return edge
}

// WithCondition sets the edge condition expression.
func WithCondition(condition string) func(*models.WorkflowEdge) {
	return func(e *models.WorkflowEdge) {
		e.Condition = condition
	}
}

// CreateTestWorkflow creates a test workflow with default metadata and no nodes.
func CreateTestWorkflow(overrides ...func(*models.Workflow)) *models.Workflow {
	workflow := &models.Workflow{
		ID:          uuid.New().String(),
		Name:        "Test Workflow",
		Description: "A workflow for testing",
		Variables:   map[string]any{"env": "test"},
		Metadata:    map[string]any{"category": "test"},
		Nodes:       []*models.WorkflowNode{},
		Edges:       []*models.WorkflowEdge{},
	}

	for _, override := range overrides {
		override(workflow)
	}

	return workflow
}

// WithWorkflowID sets the workflow ID.
func WithWorkflowID(id string) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.ID = id
	}
}

// WithMetadata sets the workflow metadata.
func WithMetadata(metadata map[string]any) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Metadata = metadata
	}
}

// WithNodes sets the workflow nodes.
func WithNodes(nodes ...*models.WorkflowNode) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Nodes = nodes
	}
}

// WithEdges sets the workflow edges.
func WithEdges(edges ...*models.WorkflowEdge) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Edges = edges
	}
}

// WithVariables sets the workflow variables.
func WithVariables(variables map[string]any) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Variables = variables
	}
}

// CreateLinearWorkflow creates a trigger -> log workflow, the smallest
// executable shape.
func CreateLinearWorkflow() *models.Workflow {
	return CreateTestWorkflow(
		WithNodes(
			CreateTestNode(WithTriggerNode(), WithID("start")),
			CreateTestNode(WithID("log"), WithName("Log")),
		),
		WithEdges(CreateTestEdge("start", "log")),
	)
}
