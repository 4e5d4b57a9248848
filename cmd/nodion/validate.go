package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	cli "github.com/urfave/cli/v3"

	"github.com/velden/nodion/pkg/cmd"
	"github.com/velden/nodion/pkg/log"
	"github.com/velden/nodion/pkg/services"
)

func ValidateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Check a workflow definition without executing it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "workflow",
				Aliases:  []string{"w"},
				Usage:    "Path to the workflow JSON file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "error",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(_ context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("nodion")

			wf, err := loadWorkflow(command.String("workflow"))
			if err != nil {
				return err
			}

			registry := cmd.NewRegistry(logger)
			service := services.NewWorkflow(nil, validator.New(validator.WithRequiredStructEnabled()), registry)

			result := service.Validate(wf)

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render validation result: %w", err)
			}

			fmt.Fprintln(os.Stdout, string(out))

			if !result.Valid {
				return errors.New("workflow definition is invalid")
			}

			return nil
		},
	}
}
