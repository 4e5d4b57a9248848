package eventbus

import (
	"context"
	"log/slog"

	"github.com/velden/nodion/pkg/events"
)

// RegisterLifecycleLogger attaches handlers that log workflow lifecycle
// events as they arrive on the bus. Register before calling Subscribe.
func RegisterLifecycleLogger(bus EventSubscriber, logger *slog.Logger) {
	logger = logger.With("module", "lifecycle_logger")

	bus.Handle(events.WorkflowCompletedEvent, func(ctx context.Context, event any) error {
		completed, ok := event.(*events.WorkflowCompleted)
		if !ok {
			return nil
		}

		logger.InfoContext(ctx, "Workflow completed",
			"workflow_id", completed.WorkflowID,
			"execution_id", completed.ExecutionID,
			"duration", completed.Duration)

		return nil
	})

	bus.Handle(events.WorkflowFailedEvent, func(ctx context.Context, event any) error {
		failed, ok := event.(*events.WorkflowFailed)
		if !ok {
			return nil
		}

		logger.WarnContext(ctx, "Workflow failed",
			"workflow_id", failed.WorkflowID,
			"execution_id", failed.ExecutionID,
			"duration", failed.Duration,
			"error", failed.Error)

		return nil
	})

	bus.Handle(events.WorkflowRetryEvent, func(ctx context.Context, event any) error {
		retry, ok := event.(*events.WorkflowRetry)
		if !ok {
			return nil
		}

		logger.InfoContext(ctx, "Workflow retrying",
			"workflow_id", retry.WorkflowID,
			"attempt", retry.Attempt,
			"error", retry.Error)

		return nil
	})
}
