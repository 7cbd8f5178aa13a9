package pipeline

import (
	"context"

	"github.com/icemap/agent/app/article"
	"github.com/icemap/agent/app/geocode"
)

// TextFetcher downloads the visible text of an article page.
type TextFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Completer answers a single free-form prompt. Used for relevance,
// address extraction, sanitization, categorization and publisher
// resolution; each call is independent fire-and-forget.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// Geocoder resolves a free-text address. A nil point with nil error
// means no match.
type Geocoder interface {
	Locate(ctx context.Context, address string) (*geocode.Point, error)
}

// ArticleStore persists admitted articles. SaveArticle must be safe to
// call again for a URL that already exists.
type ArticleStore interface {
	SaveArticle(a *article.Article) error
	SaveDeadLetter(a *article.Article, reason string) error
}

// Checkpoint records which source URLs have been fully evaluated, so an
// interrupted batch resumes without re-processing.
type Checkpoint interface {
	ProcessedSet() (map[string]bool, error)
	MarkProcessed(url string) error
}

// Acknowledger tells the upstream source a record has been consumed.
type Acknowledger interface {
	MarkProcessed(ctx context.Context, url string) error
}
