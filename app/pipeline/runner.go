package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/icemap/agent/app/article"
)

// Progress accumulates terminal outcomes over one batch.
type Progress struct {
	Accepted int
	Ignored  int
}

func (p Progress) Total() int {
	return p.Accepted + p.Ignored
}

// Runner drives one full pass over a batch of source records. Records
// already present in the checkpoint are skipped up front, each
// remaining record runs to a terminal outcome, and no single record
// may halt the batch.
type Runner struct {
	pipeline    *Pipeline
	checkpoint  Checkpoint
	maxArticles int
}

func NewRunner(pipeline *Pipeline, checkpoint Checkpoint, maxArticles int) *Runner {
	return &Runner{
		pipeline:    pipeline,
		checkpoint:  checkpoint,
		maxArticles: maxArticles,
	}
}

// Run processes up to maxArticles records. When ack is non-nil (queue
// mode) every pulled record is acknowledged exactly once, whatever its
// outcome. Returns early with the progress so far if the context is
// cancelled; checkpoint rows written so far stay durable.
func (r *Runner) Run(ctx context.Context, records []article.SourceRecord, ack Acknowledger) (Progress, error) {
	var progress Progress

	// The processed set is computed once at batch start. Concurrent
	// external mutation of it is not supported.
	processed, err := r.checkpoint.ProcessedSet()
	if err != nil {
		return progress, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	var remaining []article.SourceRecord
	for _, rec := range records {
		if processed[rec.URL] {
			continue
		}
		remaining = append(remaining, rec)
	}
	if r.maxArticles > 0 && len(remaining) > r.maxArticles {
		remaining = remaining[:r.maxArticles]
	}

	slog.Info("Starting batch",
		"total", len(records),
		"already_processed", len(records)-len(remaining),
		"processing", len(remaining))

	for _, rec := range remaining {
		select {
		case <-ctx.Done():
			return progress, ctx.Err()
		default:
		}

		outcome := r.processOne(ctx, rec)
		if outcome.Accepted {
			progress.Accepted++
		} else {
			progress.Ignored++
			slog.Debug("Record ignored", "url", rec.URL, "reason", outcome.Reason)
		}

		// Once evaluated the record is never re-evaluated, even when
		// persistence failed; forward progress wins over completeness.
		if err := r.checkpoint.MarkProcessed(rec.URL); err != nil {
			slog.Error("Failed to checkpoint record", "url", rec.URL, "error", err)
		}
		if ack != nil {
			if err := ack.MarkProcessed(ctx, rec.URL); err != nil {
				slog.Error("Failed to acknowledge record upstream", "url", rec.URL, "error", err)
			}
		}
	}

	slog.Info("Batch complete", "accepted", progress.Accepted, "ignored", progress.Ignored)

	return progress, nil
}

// processOne isolates a record's processing so an unexpected panic is
// absorbed as an ignored outcome instead of halting the batch.
func (r *Runner) processOne(ctx context.Context, rec article.SourceRecord) (outcome Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Record processing panicked", "panic", rec)
			outcome = Outcome{Reason: ReasonInternalFailure}
		}
	}()

	return r.pipeline.Process(ctx, rec)
}
