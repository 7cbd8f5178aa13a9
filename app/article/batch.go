package article

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseBatch reads a delimited blob of source records. The expected
// header is title,date,url with an optional description column. Rows
// missing a title or URL are skipped; an unparseable date falls back
// to the current time.
func ParseBatch(blob string) ([]SourceRecord, error) {
	blob = strings.ReplaceAll(blob, "\r\n", "\n")
	blob = strings.ReplaceAll(blob, "\r", "\n")

	if strings.TrimSpace(blob) == "" {
		return nil, nil
	}

	reader := csv.NewReader(strings.NewReader(blob))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read batch header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"title", "url"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("batch header missing %q column", required)
		}
	}

	var records []SourceRecord
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Skipping malformed batch row", "error", err)
			skipped++
			continue
		}

		rec := SourceRecord{
			Title:       field(row, columns, "title"),
			Description: field(row, columns, "description"),
			URL:         field(row, columns, "url"),
		}
		if rec.Title == "" || rec.URL == "" {
			skipped++
			continue
		}

		rec.PublishedAt = parseDate(field(row, columns, "date"))
		records = append(records, rec)
	}

	if skipped > 0 {
		slog.Debug("Batch rows skipped", "count", skipped)
	}

	return records, nil
}

func field(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Now().UTC()
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Now().UTC()
}
