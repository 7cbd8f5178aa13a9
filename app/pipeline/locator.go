package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/icemap/agent/app/article"
)

// LocationStore supplies stored articles missing structured location
// details and accepts the backfilled result.
type LocationStore interface {
	GetArticlesNeedingLocation(limit int) ([]article.Article, error)
	UpdateArticleLocation(url string, parsed article.ParsedLocation) error
}

// Locator backfills parsed-location details for already persisted
// articles across a fixed-size worker pool. Per-record enrichment has
// no cross-record shared state, so records fan out freely; only the
// store writes and counters are serialized.
type Locator struct {
	pipeline *Pipeline
	store    LocationStore
	workers  int
}

func NewLocator(pipeline *Pipeline, store LocationStore, workers int) *Locator {
	if workers <= 0 {
		workers = 5
	}
	return &Locator{
		pipeline: pipeline,
		store:    store,
		workers:  workers,
	}
}

// Run enriches up to limit articles and returns how many were updated.
func (l *Locator) Run(ctx context.Context, limit int) (int, error) {
	articles, err := l.store.GetArticlesNeedingLocation(limit)
	if err != nil {
		return 0, err
	}
	if len(articles) == 0 {
		return 0, nil
	}

	slog.Info("Starting location backfill", "articles", len(articles), "workers", l.workers)

	jobs := make(chan article.Article)
	var mu sync.Mutex
	updated := 0

	var wg sync.WaitGroup
	for i := 0; i < l.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range jobs {
				parsed, fellBack := l.pipeline.parseLocation(ctx, a.FullText)
				if fellBack {
					slog.Debug("Location backfill unavailable", "url", a.URL)
					continue
				}

				mu.Lock()
				err := l.store.UpdateArticleLocation(a.URL, parsed)
				if err == nil {
					updated++
				}
				mu.Unlock()

				if err != nil {
					slog.Error("Failed to update article location", "url", a.URL, "error", err)
				}
			}
		}()
	}

dispatch:
	for _, a := range articles {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- a:
		}
	}
	close(jobs)
	wg.Wait()

	slog.Info("Location backfill complete", "updated", updated, "total", len(articles))

	return updated, ctx.Err()
}
