package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/velden/nodion/pkg/cmd"
	"github.com/velden/nodion/pkg/log"
	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/workflow"
)

func RunCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Execute a workflow definition once",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "workflow",
				Aliases:  []string{"w"},
				Usage:    "Path to the workflow JSON file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Execution input as a JSON object",
				Value:   "{}",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Abort the run after this duration, retries included (0 disables the limit)",
			},
			&cli.IntFlag{
				Name:  "max-attempts",
				Usage: "Total execution attempts before giving up",
				Value: 1,
			},
			&cli.DurationFlag{
				Name:  "retry-delay",
				Usage: "Base delay between retry attempts (doubles each attempt)",
				Value: time.Second,
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (memory, kafka)",
				Value:   "memory",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("nodion")

			wf, err := loadWorkflow(command.String("workflow"))
			if err != nil {
				return err
			}

			var input map[string]any
			if err := json.Unmarshal([]byte(command.String("input")), &input); err != nil {
				return fmt.Errorf("invalid input JSON: %w", err)
			}

			registry := cmd.NewRegistry(logger)

			eventBus := cmd.NewEventBus(command.String("event-bus"), "nodion", logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			executor := workflow.NewExecutor(registry, eventBus, logger)

			opts := runOptions{
				timeout:     command.Duration("timeout"),
				maxAttempts: int(command.Int("max-attempts")),
				retryDelay:  command.Duration("retry-delay"),
			}

			execution, execErr := execute(ctx, executor, wf, input, opts)

			if execution != nil {
				out, err := json.MarshalIndent(execution, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to render execution: %w", err)
				}

				fmt.Fprintln(os.Stdout, string(out))
			}

			return execErr
		},
	}
}

type runOptions struct {
	timeout     time.Duration
	maxAttempts int
	retryDelay  time.Duration
}

func execute(
	ctx context.Context,
	executor *workflow.Executor,
	wf *models.Workflow,
	input map[string]any,
	opts runOptions,
) (*models.WorkflowExecution, error) {
	if opts.maxAttempts > 1 {
		// The timeout bounds the whole run, retries and backoff included.
		if opts.timeout > 0 {
			var cancel context.CancelFunc

			ctx, cancel = context.WithTimeout(ctx, opts.timeout)
			defer cancel()
		}

		return executor.ExecuteWithRetry(ctx, wf, input, opts.maxAttempts, opts.retryDelay)
	}

	if opts.timeout > 0 {
		return executor.ExecuteWithTimeout(ctx, wf, input, opts.timeout)
	}

	return executor.Execute(ctx, wf, input)
}

func loadWorkflow(path string) (*models.Workflow, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file %s: %w", path, err)
	}

	var wf models.Workflow
	if err := json.Unmarshal(body, &wf); err != nil {
		return nil, fmt.Errorf("failed to parse workflow file %s: %w", path, err)
	}

	return &wf, nil
}
