package pipeline

import (
	"context"
	"log/slog"

	"github.com/icemap/agent/app/article"
)

// Terminal reasons a record can be ignored.
const (
	ReasonNoText          = "no text"
	ReasonNotRelevant     = "not relevant"
	ReasonNoAddress       = "no address"
	ReasonNoCoordinates   = "no coordinates"
	ReasonInsufficient    = "insufficient payload"
	ReasonPersistFailed   = "persist failed"
	ReasonInternalFailure = "internal failure"
)

// Outcome is the terminal result of processing one source record.
type Outcome struct {
	Accepted bool
	Reason   string
	Article  *article.Article
}

func accepted(a *article.Article) Outcome {
	return Outcome{Accepted: true, Article: a}
}

func ignored(reason string, a *article.Article) Outcome {
	return Outcome{Reason: reason, Article: a}
}

// Pipeline runs the ordered enrichment stages over one source record.
// All collaborators are injected so tests can substitute deterministic
// stand-ins for the live services.
type Pipeline struct {
	fetcher   TextFetcher
	completer Completer
	geocoder  Geocoder
	store     ArticleStore
}

func NewPipeline(fetcher TextFetcher, completer Completer, geocoder Geocoder, store ArticleStore) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		completer: completer,
		geocoder:  geocoder,
		store:     store,
	}
}

// Process takes a record to its terminal outcome: fetch, relevance,
// address extraction, sanitization, geocoding, categorization,
// publisher resolution, best-effort location enrichment, admission,
// persistence. Stages run strictly in order; the first failed gate
// short-circuits the rest.
func (p *Pipeline) Process(ctx context.Context, rec article.SourceRecord) Outcome {
	a := &article.Article{
		Title:       rec.Title,
		Description: rec.Description,
		PublishedAt: rec.PublishedAt,
		URL:         rec.URL,
	}

	text, err := p.fetcher.Fetch(ctx, rec.URL)
	if err != nil {
		slog.Debug("Text fetch failed", "url", rec.URL, "error", err)
	}
	if text == "" {
		return ignored(ReasonNoText, a)
	}
	a.FullText = text

	relevant, fellBack := p.judgeRelevance(ctx, text)
	if fellBack {
		slog.Warn("Relevance check unavailable, rejecting", "url", rec.URL)
	}
	if !relevant {
		return ignored(ReasonNotRelevant, a)
	}

	rawLocation, fellBack := p.extractLocation(ctx, text)
	if fellBack {
		slog.Warn("Address extraction unavailable, rejecting", "url", rec.URL)
	}
	if rawLocation == "" {
		return ignored(ReasonNoAddress, a)
	}
	a.RawLocation = rawLocation

	address, fellBack := p.sanitizeAddress(ctx, rawLocation, text)
	if fellBack {
		slog.Debug("Address sanitization unavailable, using raw phrase", "url", rec.URL, "address", rawLocation)
	}
	a.Address = address

	point, err := p.geocoder.Locate(ctx, address)
	if err != nil {
		slog.Warn("Geocoding failed", "url", rec.URL, "address", address, "error", err)
		point = nil
	}
	if point == nil {
		return ignored(ReasonNoCoordinates, a)
	}
	a.Coordinates = &article.Coordinates{Lat: point.Lat, Lon: point.Lon}

	category, fellBack := p.categorize(ctx, text)
	if fellBack {
		slog.Debug("Categorization unavailable, using unknown", "url", rec.URL)
	}
	a.Category = category

	publisher, fellBack := p.resolvePublisher(ctx, rec.URL)
	if fellBack {
		slog.Debug("Publisher resolution unavailable, using fallback", "url", rec.URL)
	}
	a.Publisher = publisher

	parsed, fellBack := p.parseLocation(ctx, text)
	if fellBack {
		slog.Debug("Location enrichment unavailable", "url", rec.URL)
	}
	a.Parsed = parsed
	// The sanitized address stays authoritative over anything the
	// enrichment stage attached.

	if !article.Admit(a) {
		slog.Info("Record rejected by admission check", "url", rec.URL, "missing", article.MissingFields(a))
		return ignored(ReasonInsufficient, a)
	}

	if err := p.store.SaveArticle(a); err != nil {
		slog.Error("Failed to persist article", "url", rec.URL, "error", err)
		if dlErr := p.store.SaveDeadLetter(a, err.Error()); dlErr != nil {
			slog.Error("Failed to record dead letter", "url", rec.URL, "error", dlErr)
		}
		return ignored(ReasonPersistFailed, a)
	}

	slog.Info("Article accepted",
		"url", rec.URL,
		"category", string(a.Category),
		"publisher", a.Publisher,
		"address", a.Address)

	return accepted(a)
}
