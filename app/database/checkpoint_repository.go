package database

import (
	"database/sql"
	"fmt"
)

// SQLCheckpointRepository persists the set of source URLs already
// evaluated, making batches resumable across restarts.
type SQLCheckpointRepository struct {
	db *DB
}

var _ CheckpointRepository = (*SQLCheckpointRepository)(nil)

func NewCheckpointRepository(db *DB) *SQLCheckpointRepository {
	return &SQLCheckpointRepository{db: db}
}

func (r *SQLCheckpointRepository) IsProcessed(url string) (bool, error) {
	var found string
	err := r.db.QueryRow(`SELECT url FROM processed_urls WHERE url = ?`, url).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check processed url: %w", err)
	}
	return true, nil
}

func (r *SQLCheckpointRepository) MarkProcessed(url string) error {
	_, err := r.db.Exec(`
		INSERT INTO processed_urls (url) VALUES (?)
		ON CONFLICT (url) DO NOTHING
	`, url)
	if err != nil {
		return fmt.Errorf("failed to mark url processed: %w", err)
	}
	return nil
}

func (r *SQLCheckpointRepository) ProcessedSet() (map[string]bool, error) {
	rows, err := r.db.Query(`SELECT url FROM processed_urls`)
	if err != nil {
		return nil, fmt.Errorf("failed to load processed set: %w", err)
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan processed url: %w", err)
		}
		set[url] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating processed urls: %w", err)
	}

	return set, nil
}

func (r *SQLCheckpointRepository) GetProcessedCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM processed_urls`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count processed urls: %w", err)
	}
	return count, nil
}
