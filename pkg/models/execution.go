package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExecutionStatus is the lifecycle state of a workflow execution. Transitions
// are monotonic: running may move to completed or failed, terminal states
// never change.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionStatusCompleted || s == ExecutionStatusFailed
}

// NodeStatus is the outcome of a single node execution.
type NodeStatus string

const (
	NodeStatusCompleted NodeStatus = "completed"
	NodeStatusFailed    NodeStatus = "failed"
)

// NodeExecutionResult is returned by a node executor invocation. Output feeds
// context variables and edge-condition evaluation.
type NodeExecutionResult struct {
	Status NodeStatus `json:"status"`
	Output any        `json:"output,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// ValidationResult reports whether a node's configuration is acceptable to
// its executor.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// WorkflowExecution is the record of one run of a workflow. It is created at
// the start of execution, mutated during traversal and finalized exactly once.
// It is never shared across concurrent executions.
type WorkflowExecution struct {
	ID         string           `json:"id"`
	WorkflowID string           `json:"workflow_id"`
	Status     ExecutionStatus  `json:"status"`
	Input      map[string]any   `json:"input,omitempty"`
	Output     any              `json:"output,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	Duration   time.Duration    `json:"duration"`
	Context    *WorkflowContext `json:"context"`
	NodeID     string           `json:"node_id,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// NewWorkflowExecution creates a running execution with a fresh context
// seeded from input.
func NewWorkflowExecution(workflowID string, input map[string]any) *WorkflowExecution {
	return &WorkflowExecution{
		ID:         GenerateExecutionID(),
		WorkflowID: workflowID,
		Status:     ExecutionStatusRunning,
		Input:      input,
		StartedAt:  time.Now().UTC(),
		Context:    NewWorkflowContext(input),
	}
}

// Finish moves the execution into a terminal state and records timing.
// Finishing an already terminal execution is rejected.
func (e *WorkflowExecution) Finish(status ExecutionStatus, err error) error {
	if e.Status.Terminal() {
		return fmt.Errorf("execution %s already finished with status %s", e.ID, e.Status)
	}

	if !status.Terminal() {
		return fmt.Errorf("cannot finish execution %s with non-terminal status %s", e.ID, status)
	}

	now := time.Now().UTC()
	e.Status = status
	e.FinishedAt = &now
	e.Duration = now.Sub(e.StartedAt)

	if err != nil {
		e.Error = err.Error()
	}

	return nil
}

// GenerateExecutionID generates a unique execution ID.
func GenerateExecutionID() string {
	return "exec-" + uuid.New().String()[:8]
}
