package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/icemap/agent/app/article"
	"github.com/icemap/agent/app/pipeline"
	"github.com/icemap/agent/app/source"
)

// IngestTask drains one batch from a record source through the
// enrichment pipeline. A failure to reach the source itself is the
// only error surfaced; per-record failures are absorbed by the runner.
type IngestTask struct {
	Task
	src       source.Source
	runner    *pipeline.Runner
	batchSize int
	report    func(sourceName string, progress pipeline.Progress, sawRecords bool)
}

func NewIngestTask(src source.Source, runner *pipeline.Runner, batchSize int,
	report func(string, pipeline.Progress, bool)) *IngestTask {
	return &IngestTask{
		Task:      NewTask(TaskTypeIngest, src.Name()),
		src:       src,
		runner:    runner,
		batchSize: batchSize,
		report:    report,
	}
}

func (t *IngestTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	blob, err := t.src.ListUnprocessed(ctx)
	if err != nil {
		return fmt.Errorf("failed to list unprocessed records: %w", err)
	}

	records, err := article.ParseBatch(blob)
	if err != nil {
		return fmt.Errorf("failed to parse record batch: %w", err)
	}

	if len(records) == 0 {
		slog.Debug("No unprocessed records", "source", t.SourceName)
		if t.report != nil {
			t.report(t.SourceName, pipeline.Progress{}, false)
		}
		return nil
	}

	// The per-source batch size caps how much of the pulled blob one
	// task run works through; the remainder is still unacknowledged
	// upstream and comes back on the next poll.
	if t.batchSize > 0 && len(records) > t.batchSize {
		records = records[:t.batchSize]
	}

	progress, err := t.runner.Run(ctx, records, t.src)
	if err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}

	slog.Info("Task completed",
		"type", "Ingest",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"records", len(records),
		"accepted", progress.Accepted,
		"ignored", progress.Ignored)

	if t.report != nil {
		t.report(t.SourceName, progress, progress.Total() > 0)
	}

	return nil
}
