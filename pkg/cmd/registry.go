// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/velden/nodion/pkg/executors/filewrite"
	"github.com/velden/nodion/pkg/executors/httprequest"
	logexecutor "github.com/velden/nodion/pkg/executors/log"
	"github.com/velden/nodion/pkg/executors/transform"
	"github.com/velden/nodion/pkg/executors/trigger"
	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/registry"
)

// NewRegistry creates a registry with the built-in node executors registered.
func NewRegistry(logger *slog.Logger) *registry.Registry {
	reg := registry.NewRegistry(logger)

	reg.Register(models.NodeTypeTrigger, trigger.NewExecutor())
	reg.Register("log", logexecutor.NewExecutor(logger))
	reg.Register("transform", transform.NewExecutor())
	reg.Register("httprequest", httprequest.NewExecutor())
	reg.Register("file_write", filewrite.NewExecutor())

	return reg
}
