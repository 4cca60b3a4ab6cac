package app

import (
	"context"
	"log/slog"

	"github.com/flarebyte/composer-guard/internal/task"
	"github.com/flarebyte/composer-guard/internal/taskctx"
)

// Execute runs t in rc when the task accepts the context.
func Execute(ctx context.Context, t task.Task, rc taskctx.Context, logger *slog.Logger) error {
	if !t.CanRunInContext(rc) {
		logger.Info("task skipped", "task", t.Name())
		return nil
	}
	if err := t.Run(ctx, rc); err != nil {
		logger.Debug("task failed", "task", t.Name(), "error", err.Error())
		return Classify(err)
	}
	logger.Info("task passed", "task", t.Name())
	return nil
}
