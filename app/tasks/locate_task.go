package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/icemap/agent/app/pipeline"
)

// LocateTask backfills structured location details for stored articles
// through the worker-pool locator.
type LocateTask struct {
	Task
	locator *pipeline.Locator
	limit   int
}

func NewLocateTask(locator *pipeline.Locator, limit int) *LocateTask {
	return &LocateTask{
		Task:    NewTask(TaskTypeLocate, "backfill"),
		locator: locator,
		limit:   limit,
	}
}

func (t *LocateTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	updated, err := t.locator.Run(ctx, t.limit)
	if err != nil {
		return fmt.Errorf("location backfill failed: %w", err)
	}

	if updated > 0 {
		slog.Info("Task completed",
			"type", "Locate",
			"duration", t.GetDuration(),
			"updated", updated)
	}

	return nil
}
