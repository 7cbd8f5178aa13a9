package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/icemap/agent/app/article"
)

// SQLArticleRepository handles database operations for enriched
// articles.
type SQLArticleRepository struct {
	db *DB
}

var _ ArticleRepository = (*SQLArticleRepository)(nil)

func NewArticleRepository(db *DB) *SQLArticleRepository {
	return &SQLArticleRepository{db: db}
}

// SaveArticle writes one enriched article. A URL that already exists
// is left untouched, so replays never produce duplicates.
func (r *SQLArticleRepository) SaveArticle(a *article.Article) error {
	var lat, lon sql.NullFloat64
	if a.Coordinates != nil {
		lat = sql.NullFloat64{Float64: a.Coordinates.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: a.Coordinates.Lon, Valid: true}
	}

	// Enrichment that already produced details at ingest time does not
	// need a backfill pass.
	locationChecked := 0
	if a.Parsed != (article.ParsedLocation{}) {
		locationChecked = 1
	}

	_, err := r.db.Exec(`
		INSERT INTO articles (
			url, title, description, published_at, full_text,
			raw_location, address, lat, lon, category, publisher,
			city, state, country, parsed_address, location_details,
			location_checked
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url) DO NOTHING
	`, a.URL, a.Title, a.Description, a.PublishedAt.UTC(), a.FullText,
		a.RawLocation, a.Address, lat, lon, string(a.Category), a.Publisher,
		a.Parsed.City, a.Parsed.State, a.Parsed.Country,
		a.Parsed.Address, a.Parsed.Details, locationChecked)

	if err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}

	return nil
}

// SaveDeadLetter keeps a copy of an article whose persistence failed,
// so transient store outages can be inspected and replayed by hand.
func (r *SQLArticleRepository) SaveDeadLetter(a *article.Article, reason string) error {
	payload, err := json.Marshal(map[string]any{
		"title":     a.Title,
		"date":      a.PublishedAt.UTC(),
		"url":       a.URL,
		"address":   a.Address,
		"category":  string(a.Category),
		"publisher": a.Publisher,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal dead letter: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO dead_letters (url, payload, reason)
		VALUES (?, ?, ?)
	`, a.URL, string(payload), reason)

	if err != nil {
		return fmt.Errorf("failed to save dead letter: %w", err)
	}

	return nil
}

func (r *SQLArticleRepository) GetArticleCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

func (r *SQLArticleRepository) GetDeadLetterCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM dead_letters`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count dead letters: %w", err)
	}
	return count, nil
}

func (r *SQLArticleRepository) GetCategoryCounts() (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT category, COUNT(*)
		FROM articles
		GROUP BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get category counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		counts[category] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return counts, nil
}

// GetArticlesNeedingLocation returns stored articles the backfill has
// not attempted yet. Attempted articles are excluded whatever the
// attempt produced, so a text with no extractable location is not
// re-enriched on every pass.
func (r *SQLArticleRepository) GetArticlesNeedingLocation(limit int) ([]article.Article, error) {
	rows, err := r.db.Query(`
		SELECT url, title, full_text, address
		FROM articles
		WHERE location_checked = 0
		  AND full_text != ''
		ORDER BY created_at
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles needing location: %w", err)
	}
	defer rows.Close()

	var articles []article.Article
	for rows.Next() {
		var a article.Article
		if err := rows.Scan(&a.URL, &a.Title, &a.FullText, &a.Address); err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

// UpdateArticleLocation backfills parsed location details and marks
// the article as checked, even when every field came back empty. The
// sanitized address column is left alone; it stays the authoritative
// address.
func (r *SQLArticleRepository) UpdateArticleLocation(url string, parsed article.ParsedLocation) error {
	_, err := r.db.Exec(`
		UPDATE articles
		SET city = ?, state = ?, country = ?, parsed_address = ?, location_details = ?,
		    location_checked = 1
		WHERE url = ?
	`, parsed.City, parsed.State, parsed.Country, parsed.Address, parsed.Details, url)

	if err != nil {
		return fmt.Errorf("failed to update article location: %w", err)
	}

	return nil
}
