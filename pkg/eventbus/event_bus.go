// Package eventbus provides the event publishing seam between the execution
// engine and external observers.
package eventbus

import (
	"context"

	"github.com/velden/nodion/pkg/events"
)

type EventHandler func(ctx context.Context, event any) error

// EventPublisher is the write side consumed by the engine.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event events.Event) error
}

// EventSubscriber is the read side for observers.
type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler)
	Subscribe(ctx context.Context) error
}

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
