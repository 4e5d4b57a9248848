// Package events defines the lifecycle events emitted during workflow
// execution, for external observers such as logging, progress UIs or
// persistence of intermediate state.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/velden/nodion/pkg/models"
)

type EventType string

// Topic is the event bus topic carrying workflow lifecycle events.
const Topic = "nodion.workflow.events"

const EventKeyMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	NodeStartedEvent   EventType = "node.started"
	NodeCompletedEvent EventType = "node.completed"
	NodeFailedEvent    EventType = "node.failed"

	WorkflowCompletedEvent EventType = "workflow.completed"
	WorkflowFailedEvent    EventType = "workflow.failed"
	WorkflowRetryEvent     EventType = "workflow.retry"
)

// Event is implemented by every lifecycle event.
type Event interface {
	GetType() EventType
}

type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	WorkflowID  string    `json:"workflow_id"`
	ExecutionID string    `json:"execution_id"`
}

// NewBaseEvent fills the shared envelope of an event.
func NewBaseEvent(eventType EventType, workflowID, executionID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		WorkflowID:  workflowID,
		ExecutionID: executionID,
	}
}

type NodeStarted struct {
	BaseEvent

	NodeID   string `json:"node_id"`
	NodeType string `json:"node_type"`
}

func (e NodeStarted) GetType() EventType {
	return NodeStartedEvent
}

type NodeCompleted struct {
	BaseEvent

	NodeID   string        `json:"node_id"`
	Output   any           `json:"output,omitempty"`
	Duration time.Duration `json:"duration"`
}

func (e NodeCompleted) GetType() EventType {
	return NodeCompletedEvent
}

type NodeFailed struct {
	BaseEvent

	NodeID   string        `json:"node_id"`
	Error    string        `json:"error"`
	Duration time.Duration `json:"duration"`
}

func (e NodeFailed) GetType() EventType {
	return NodeFailedEvent
}

type WorkflowCompleted struct {
	BaseEvent

	Duration  time.Duration             `json:"duration"`
	Execution *models.WorkflowExecution `json:"execution,omitempty"`
}

func (e WorkflowCompleted) GetType() EventType {
	return WorkflowCompletedEvent
}

type WorkflowFailed struct {
	BaseEvent

	Error     string                    `json:"error"`
	Duration  time.Duration             `json:"duration"`
	Execution *models.WorkflowExecution `json:"execution,omitempty"`
}

func (e WorkflowFailed) GetType() EventType {
	return WorkflowFailedEvent
}

// WorkflowRetry is emitted before each re-attempt of a retried execution,
// carrying the attempt number about to run and the error that triggered it.
type WorkflowRetry struct {
	BaseEvent

	Attempt int    `json:"attempt"`
	Error   string `json:"error"`
}

func (e WorkflowRetry) GetType() EventType {
	return WorkflowRetryEvent
}
