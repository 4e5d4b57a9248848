// Package schedule runs stored workflows on cron schedules.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/persistence"
)

// ScheduleMetadataKey is the workflow metadata key holding a cron expression.
// A workflow carrying it is picked up by LoadFromStore.
const ScheduleMetadataKey = "schedule"

// Runner executes a stored workflow by ID. Satisfied by services.Execution.
type Runner interface {
	Run(ctx context.Context, workflowID string, input map[string]any) (*models.WorkflowExecution, error)
}

// Scheduler triggers workflow executions on cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	logger *slog.Logger
}

// NewScheduler creates a scheduler that hands due workflows to runner.
func NewScheduler(runner Runner, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		runner: runner,
		logger: logger.With("module", "scheduler"),
	}
}

// Add registers a workflow to run on the given cron expression.
func (s *Scheduler) Add(workflowID, cronExpr string) error {
	if workflowID == "" {
		return errors.New("schedule workflow ID is required")
	}

	if _, err := cron.ParseStandard(cronExpr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}

	_, err := s.cron.AddFunc(cronExpr, func() { s.run(workflowID) })
	if err != nil {
		return fmt.Errorf("failed to add cron job for workflow %s: %w", workflowID, err)
	}

	s.logger.Info("Scheduled workflow", "workflow_id", workflowID, "cron", cronExpr)

	return nil
}

// LoadFromStore registers every stored workflow whose metadata carries a
// schedule expression. Workflows with invalid expressions are skipped.
func (s *Scheduler) LoadFromStore(ctx context.Context, store persistence.Persistence) error {
	workflows, err := store.Workflows(ctx)
	if err != nil {
		return fmt.Errorf("failed to load workflows: %w", err)
	}

	for _, workflow := range workflows {
		cronExpr, ok := workflow.Metadata[ScheduleMetadataKey].(string)
		if !ok || cronExpr == "" {
			continue
		}

		if err := s.Add(workflow.ID, cronExpr); err != nil {
			s.logger.Warn("Skipping workflow with invalid schedule",
				"workflow_id", workflow.ID, "error", err)
		}
	}

	return nil
}

// Start begins dispatching scheduled workflows in the background.
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop stops the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("Stopping scheduler")

	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(workflowID string) {
	logger := s.logger.With("workflow_id", workflowID)
	logger.Info("Cron schedule fired")

	input := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	execution, err := s.runner.Run(context.Background(), workflowID, input)
	if err != nil {
		logger.Error("Scheduled execution failed", "error", err)

		return
	}

	logger.Info("Scheduled execution finished", "execution_id", execution.ID, "status", execution.Status)
}
