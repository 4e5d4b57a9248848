// Package workflow implements the sequential graph executor: it walks a
// workflow's nodes depth-first from its trigger nodes, dispatches each node
// to its registered executor, records outputs in the execution context and
// gates edge traversal through condition evaluation.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/velden/nodion/pkg/condition"
	"github.com/velden/nodion/pkg/eventbus"
	"github.com/velden/nodion/pkg/events"
	"github.com/velden/nodion/pkg/graph"
	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/otelhelper"
	"github.com/velden/nodion/pkg/protocol"
	"github.com/velden/nodion/pkg/registry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrNoTriggerNode is returned when a workflow defines no trigger node and
// therefore has no valid entry point.
var ErrNoTriggerNode = errors.New("workflow must have at least one trigger node")

const tracerName = "github.com/velden/nodion/pkg/workflow"

// Executor runs workflows. One Executor may serve many concurrent Execute
// calls; each call owns its execution record and context exclusively.
type Executor struct {
	registry  *registry.Registry
	publisher eventbus.EventPublisher
	evaluator *condition.Evaluator
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewExecutor creates an executor. The registry and publisher are explicit
// collaborators supplied by the embedding application.
func NewExecutor(reg *registry.Registry, publisher eventbus.EventPublisher, logger *slog.Logger) *Executor {
	return &Executor{
		registry:  reg,
		publisher: publisher,
		evaluator: condition.NewEvaluator(logger),
		tracer:    otel.Tracer(tracerName),
		logger:    logger.With("module", "workflow_executor"),
	}
}

// Execute runs a single workflow to completion. Variables are seeded from
// the workflow's declared variables and then from input. On failure the
// finalized execution record is returned alongside the error.
func (e *Executor) Execute(ctx context.Context, wf *models.Workflow, input map[string]any) (*models.WorkflowExecution, error) {
	execution := models.NewWorkflowExecution(wf.ID, input)

	for k, v := range wf.Variables {
		if _, ok := execution.Context.Variable(k); !ok {
			execution.Context.SetVariable(k, v)
		}
	}

	logger := e.logger.With("workflow_id", wf.ID, "execution_id", execution.ID)
	logger.Info("Starting workflow execution")

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
		attribute.String(otelhelper.WorkflowIDKey, wf.ID),
		attribute.String(otelhelper.WorkflowNameKey, wf.Name),
		attribute.String(otelhelper.ExecutionIDKey, execution.ID),
	)
	defer span.End()

	g := graph.Build(wf)

	triggers := g.TriggerNodes()
	if len(triggers) == 0 {
		return e.fail(ctx, span, execution, logger, ErrNoTriggerNode)
	}

	visited := make(map[string]struct{}, g.Size())

	for _, trigger := range triggers {
		if err := e.executeNode(ctx, g, execution, trigger, visited, logger); err != nil {
			return e.fail(ctx, span, execution, logger, err)
		}
	}

	if last, ok := execution.Context.Variable(models.LastOutputKey); ok {
		execution.Output = last
	}

	if err := execution.Finish(models.ExecutionStatusCompleted, nil); err != nil {
		return execution, err
	}

	e.emit(ctx, execution.WorkflowID, events.WorkflowCompleted{
		BaseEvent: events.NewBaseEvent(events.WorkflowCompletedEvent, execution.WorkflowID, execution.ID),
		Duration:  execution.Duration,
		Execution: execution,
	}, logger)

	logger.Info("Workflow execution completed", "duration", execution.Duration)

	return execution, nil
}

// executeNode is the recursive depth-first step: execute the node, then walk
// every outgoing edge whose condition is satisfied by the node's output. One
// branch is fully exhausted before the next sibling begins.
func (e *Executor) executeNode(
	ctx context.Context,
	g *graph.ExecutionGraph,
	execution *models.WorkflowExecution,
	node *models.WorkflowNode,
	visited map[string]struct{},
	logger *slog.Logger,
) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("execution cancelled before node %s: %w", node.ID, err)
	}

	// Revisits are skipped so cyclic definitions terminate instead of
	// exhausting the stack.
	if _, seen := visited[node.ID]; seen {
		logger.Warn("Node already visited in this execution, skipping revisit", "node_id", node.ID)

		return nil
	}

	visited[node.ID] = struct{}{}
	execution.NodeID = node.ID

	if !node.Enabled {
		logger.Debug("Node is disabled, skipping execution", "node_id", node.ID)

		return e.traverseEdges(ctx, g, execution, node, nil, visited, logger)
	}

	output, err := e.runNode(ctx, execution, node, logger)
	if err != nil {
		return err
	}

	return e.traverseEdges(ctx, g, execution, node, output, visited, logger)
}

// runNode dispatches one node to its executor inside a node span and records
// its output in the execution context.
func (e *Executor) runNode(
	ctx context.Context,
	execution *models.WorkflowExecution,
	node *models.WorkflowNode,
	logger *slog.Logger,
) (any, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.node",
		attribute.String(otelhelper.NodeIDKey, node.ID),
		attribute.String(otelhelper.NodeTypeKey, node.Type),
	)
	defer span.End()

	e.emit(ctx, execution.WorkflowID, events.NodeStarted{
		BaseEvent: events.NewBaseEvent(events.NodeStartedEvent, execution.WorkflowID, execution.ID),
		NodeID:    node.ID,
		NodeType:  node.Type,
	}, logger)

	startedAt := time.Now()

	executor, err := e.registry.Resolve(node.Type)
	if err != nil {
		err = fmt.Errorf("cannot execute node %s: %w", node.ID, err)
		otelhelper.SetError(span, err)

		return nil, err
	}

	if err := e.validateNode(ctx, executor, node); err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	result, err := executor.Execute(ctx, node, execution.Context)
	if err == nil && result != nil && result.Status == models.NodeStatusFailed {
		err = errors.New(result.Error)
	}

	if err != nil {
		otelhelper.SetError(span, err)

		e.emit(ctx, execution.WorkflowID, events.NodeFailed{
			BaseEvent: events.NewBaseEvent(events.NodeFailedEvent, execution.WorkflowID, execution.ID),
			NodeID:    node.ID,
			Error:     err.Error(),
			Duration:  time.Since(startedAt),
		}, logger)

		return nil, fmt.Errorf("node %s execution failed: %w", node.ID, err)
	}

	var output any
	if result != nil {
		output = result.Output
	}

	execution.Context.RecordNodeOutput(node.ID, output)

	e.emit(ctx, execution.WorkflowID, events.NodeCompleted{
		BaseEvent: events.NewBaseEvent(events.NodeCompletedEvent, execution.WorkflowID, execution.ID),
		NodeID:    node.ID,
		Output:    output,
		Duration:  time.Since(startedAt),
	}, logger)

	return output, nil
}

// traverseEdges recurses into every successor whose edge condition is
// satisfied by the node's output. Edges pointing at unknown nodes are
// skipped.
func (e *Executor) traverseEdges(
	ctx context.Context,
	g *graph.ExecutionGraph,
	execution *models.WorkflowExecution,
	node *models.WorkflowNode,
	output any,
	visited map[string]struct{},
	logger *slog.Logger,
) error {
	for _, edge := range g.Outgoing(node.ID) {
		if edge.Condition != "" && !e.evaluator.Evaluate(edge.Condition, output) {
			logger.Debug("Edge condition not satisfied, pruning branch",
				"edge_id", edge.ID, "condition", edge.Condition)

			continue
		}

		next, ok := g.Node(edge.Target)
		if !ok {
			logger.Debug("Edge target not found in workflow, skipping",
				"edge_id", edge.ID, "target", edge.Target)

			continue
		}

		if err := e.executeNode(ctx, g, execution, next, visited, logger); err != nil {
			return err
		}
	}

	return nil
}

// validateNode runs the schema check and the executor's optional Validate
// hook. A validation failure is fatal for the execution.
func (e *Executor) validateNode(ctx context.Context, executor protocol.NodeExecutor, node *models.WorkflowNode) error {
	schemaResult, err := e.registry.ValidateConfig(node)
	if err != nil {
		return fmt.Errorf("node %s config validation errored: %w", node.ID, err)
	}

	if !schemaResult.Valid {
		return fmt.Errorf("node %s failed validation: %s", node.ID, strings.Join(schemaResult.Errors, "; "))
	}

	validator, ok := executor.(protocol.NodeValidator)
	if !ok {
		return nil
	}

	result, err := validator.Validate(ctx, node)
	if err != nil {
		return fmt.Errorf("node %s validation errored: %w", node.ID, err)
	}

	if !result.Valid {
		return fmt.Errorf("node %s failed validation: %s", node.ID, strings.Join(result.Errors, "; "))
	}

	return nil
}

func (e *Executor) fail(
	ctx context.Context,
	span trace.Span,
	execution *models.WorkflowExecution,
	logger *slog.Logger,
	cause error,
) (*models.WorkflowExecution, error) {
	otelhelper.SetError(span, cause)

	if err := execution.Finish(models.ExecutionStatusFailed, cause); err != nil {
		logger.Error("Failed to finalize execution", "error", err)
	}

	e.emit(ctx, execution.WorkflowID, events.WorkflowFailed{
		BaseEvent: events.NewBaseEvent(events.WorkflowFailedEvent, execution.WorkflowID, execution.ID),
		Error:     cause.Error(),
		Duration:  execution.Duration,
		Execution: execution,
	}, logger)

	logger.Error("Workflow execution failed", "error", cause)

	return execution, cause
}

// emit publishes an event. Emission never blocks or aborts traversal;
// publish errors are logged and dropped.
func (e *Executor) emit(ctx context.Context, key string, event events.Event, logger *slog.Logger) {
	if e.publisher == nil {
		return
	}

	if err := e.publisher.Publish(ctx, key, event); err != nil {
		logger.Error("Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}
