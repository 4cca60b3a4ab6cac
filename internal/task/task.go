// Package task holds the validation tasks run against a changed-file context.
package task

import (
	"context"

	"github.com/flarebyte/composer-guard/internal/config"
	"github.com/flarebyte/composer-guard/internal/taskctx"
)

// Task is the surface an orchestrator needs to schedule and run a task.
type Task interface {
	Name() string
	ConfigurableOptions() []config.Option
	CanRunInContext(c taskctx.Context) bool
	Run(ctx context.Context, c taskctx.Context) error
}
