// Package graph derives adjacency structures from a workflow definition for
// O(1) successor discovery during traversal.
package graph

import "github.com/velden/nodion/pkg/models"

// ExecutionGraph indexes a workflow's nodes and edges. It is built once per
// execution and read-only during traversal. Incoming edges are unused by the
// sequential walk but kept for executors with fan-in semantics.
type ExecutionGraph struct {
	nodes    map[string]*models.WorkflowNode
	outgoing map[string][]*models.WorkflowEdge
	incoming map[string][]*models.WorkflowEdge
	triggers []*models.WorkflowNode
}

// Build constructs an ExecutionGraph in a single pass over the definition.
// It is a pure function: no validation of well-formedness is performed here,
// cycles and dangling edge references are left to the traversal layer.
func Build(workflow *models.Workflow) *ExecutionGraph {
	g := &ExecutionGraph{
		nodes:    make(map[string]*models.WorkflowNode, len(workflow.Nodes)),
		outgoing: make(map[string][]*models.WorkflowEdge, len(workflow.Edges)),
		incoming: make(map[string][]*models.WorkflowEdge, len(workflow.Edges)),
	}

	for _, node := range workflow.Nodes {
		g.nodes[node.ID] = node

		if node.IsTrigger() {
			g.triggers = append(g.triggers, node)
		}
	}

	for _, edge := range workflow.Edges {
		g.outgoing[edge.Source] = append(g.outgoing[edge.Source], edge)
		g.incoming[edge.Target] = append(g.incoming[edge.Target], edge)
	}

	return g
}

// Node returns the node with the given id.
func (g *ExecutionGraph) Node(id string) (*models.WorkflowNode, bool) {
	node, ok := g.nodes[id]

	return node, ok
}

// Outgoing returns the edges leaving the given node, in declaration order.
func (g *ExecutionGraph) Outgoing(id string) []*models.WorkflowEdge {
	return g.outgoing[id]
}

// Incoming returns the edges entering the given node, in declaration order.
func (g *ExecutionGraph) Incoming(id string) []*models.WorkflowEdge {
	return g.incoming[id]
}

// TriggerNodes returns the trigger nodes in declaration order.
func (g *ExecutionGraph) TriggerNodes() []*models.WorkflowNode {
	return g.triggers
}

// Size returns the number of indexed nodes.
func (g *ExecutionGraph) Size() int {
	return len(g.nodes)
}
