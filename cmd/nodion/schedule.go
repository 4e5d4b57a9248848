package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/velden/nodion/pkg/cmd"
	"github.com/velden/nodion/pkg/eventbus"
	"github.com/velden/nodion/pkg/log"
	"github.com/velden/nodion/pkg/schedule"
	"github.com/velden/nodion/pkg/services"
	"github.com/velden/nodion/pkg/workflow"
)

func ScheduleCommand() *cli.Command {
	return &cli.Command{
		Name:    "schedule",
		Aliases: []string{"s"},
		Usage:   "Run stored workflows on their cron schedules",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
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
			logger := log.WithModule("scheduler")

			logger.InfoContext(ctx, "Initializing Nodion scheduler")

			registry := cmd.NewRegistry(logger)

			eventBus := cmd.NewEventBus(command.String("event-bus"), "nodion-scheduler", logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			persistence := cmd.NewPersistence(command.String("database-url"))
			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventbus.RegisterLifecycleLogger(eventBus, logger)

			if err := eventBus.Subscribe(ctx); err != nil {
				return fmt.Errorf("failed to subscribe to event bus: %w", err)
			}

			executor := workflow.NewExecutor(registry, eventBus, logger)
			executionService := services.NewExecution(persistence, executor, logger)

			scheduler := schedule.NewScheduler(executionService, logger)
			if err := scheduler.LoadFromStore(ctx, persistence); err != nil {
				return err
			}

			scheduler.Start()

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			<-ctx.Done()

			return scheduler.Stop(context.Background())
		},
	}
}
