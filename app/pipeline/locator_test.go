package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/icemap/agent/app/article"
)

type fakeLocationStore struct {
	mu       sync.Mutex
	pending  []article.Article
	updated  map[string]article.ParsedLocation
	listErr  error
	writeErr error
}

func (s *fakeLocationStore) GetArticlesNeedingLocation(limit int) ([]article.Article, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if limit > 0 && len(s.pending) > limit {
		return s.pending[:limit], nil
	}
	return s.pending, nil
}

func (s *fakeLocationStore) UpdateArticleLocation(url string, parsed article.ParsedLocation) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updated == nil {
		s.updated = make(map[string]article.ParsedLocation)
	}
	s.updated[url] = parsed
	return nil
}

func pendingArticles(urls ...string) []article.Article {
	articles := make([]article.Article, 0, len(urls))
	for _, u := range urls {
		articles = append(articles, article.Article{
			URL:      u,
			FullText: "ICE agents raided a warehouse in Houston on Friday morning.",
		})
	}
	return articles
}

func TestLocator_Run(t *testing.T) {
	store := &fakeLocationStore{pending: pendingArticles(
		"https://example.com/a", "https://example.com/b", "https://example.com/c")}
	pipe := NewPipeline(nil, happyCompleter(), nil, nil)
	locator := NewLocator(pipe, store, 2)

	updated, err := locator.Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated != 3 {
		t.Errorf("Expected 3 articles updated, got %d", updated)
	}

	parsed, ok := store.updated["https://example.com/b"]
	if !ok {
		t.Fatal("Expected article b to be updated")
	}
	if parsed.City != "Houston" {
		t.Errorf("Unexpected parsed city: %s", parsed.City)
	}
}

func TestLocator_Run_NothingPending(t *testing.T) {
	store := &fakeLocationStore{}
	locator := NewLocator(NewPipeline(nil, happyCompleter(), nil, nil), store, 2)

	updated, err := locator.Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated != 0 {
		t.Errorf("Expected 0 updates, got %d", updated)
	}
}

func TestLocator_Run_EnrichmentFailureSkipsWrite(t *testing.T) {
	store := &fakeLocationStore{pending: pendingArticles("https://example.com/a")}
	completer := &fakeCompleter{err: errors.New("upstream unavailable")}
	locator := NewLocator(NewPipeline(nil, completer, nil, nil), store, 2)

	updated, err := locator.Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated != 0 {
		t.Errorf("Expected no updates when enrichment fails, got %d", updated)
	}
	if len(store.updated) != 0 {
		t.Errorf("No store writes expected, got %v", store.updated)
	}
}

func TestLocator_Run_ListFailure(t *testing.T) {
	store := &fakeLocationStore{listErr: errors.New("database locked")}
	locator := NewLocator(NewPipeline(nil, happyCompleter(), nil, nil), store, 2)

	if _, err := locator.Run(context.Background(), 0); err == nil {
		t.Fatal("Expected error when listing pending articles fails")
	}
}
