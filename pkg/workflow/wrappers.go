package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/velden/nodion/pkg/events"
	"github.com/velden/nodion/pkg/models"
)

// ExecuteWithTimeout bounds a full execution's wall-clock time. Cancellation
// is cooperative: the deadline context is threaded into every node executor
// call and checked between nodes, so a timed-out execution stops at the next
// node boundary instead of running on in the background.
func (e *Executor) ExecuteWithTimeout(
	ctx context.Context,
	wf *models.Workflow,
	input map[string]any,
	timeout time.Duration,
) (*models.WorkflowExecution, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	execution, err := e.Execute(ctx, wf, input)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return execution, fmt.Errorf("workflow %s timed out after %s: %w", wf.ID, timeout, err)
	}

	return execution, err
}

// ExecuteWithRetry re-invokes Execute from scratch up to maxAttempts times
// with exponential backoff between attempts. There is no checkpointing:
// every attempt is a full restart, and side effects of failed attempts are
// not rolled back, so node executors are expected to be idempotent. A
// workflow.retry event is emitted before each re-attempt.
func (e *Executor) ExecuteWithRetry(
	ctx context.Context,
	wf *models.Workflow,
	input map[string]any,
	maxAttempts int,
	delay time.Duration,
) (*models.WorkflowExecution, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var (
		execution *models.WorkflowExecution
		lastErr   error
	)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			e.emit(ctx, wf.ID, events.WorkflowRetry{
				BaseEvent: events.NewBaseEvent(events.WorkflowRetryEvent, wf.ID, ""),
				Attempt:   attempt,
				Error:     lastErr.Error(),
			}, e.logger)

			backoff := delay * time.Duration(1<<(attempt-2))

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return execution, ctx.Err()
			}
		}

		execution, lastErr = e.Execute(ctx, wf, input)
		if lastErr == nil {
			return execution, nil
		}

		e.logger.Warn("Workflow attempt failed",
			"workflow_id", wf.ID, "attempt", attempt, "max_attempts", maxAttempts, "error", lastErr)
	}

	return execution, fmt.Errorf("workflow %s failed after %d attempts: %w", wf.ID, maxAttempts, lastErr)
}
