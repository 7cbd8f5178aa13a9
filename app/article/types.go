package article

import (
	"time"
)

// SourceRecord is one raw mention of an event as pulled from a source,
// before any enrichment.
type SourceRecord struct {
	Title       string
	Description string
	PublishedAt time.Time
	URL         string
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ParsedLocation holds best-effort structured location details. All
// fields may be empty; Address here never overrides Article.Address.
type ParsedLocation struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Address string `json:"address"`
	Details string `json:"location_details"`
}

// Article is a SourceRecord augmented with derived category, location,
// and publisher information, built incrementally by the pipeline.
type Article struct {
	Title       string
	Description string
	PublishedAt time.Time
	URL         string

	FullText    string
	RawLocation string
	Address     string // sanitized, authoritative
	Coordinates *Coordinates
	Category    Category
	Publisher   string
	Parsed      ParsedLocation
}

type Category string

const (
	CategoryRaid      Category = "raid"
	CategoryArrest    Category = "arrest"
	CategoryDetention Category = "detention"
	CategoryProtest   Category = "protest"
	CategoryPolicy    Category = "policy"
	CategoryOpinion   Category = "opinion"
	CategoryUnknown   Category = "unknown"
)

var validCategories = map[Category]bool{
	CategoryRaid:      true,
	CategoryArrest:    true,
	CategoryDetention: true,
	CategoryProtest:   true,
	CategoryPolicy:    true,
	CategoryOpinion:   true,
	CategoryUnknown:   true,
}

// Categories lists the closed classification set in display order.
func Categories() []Category {
	return []Category{
		CategoryRaid, CategoryArrest, CategoryDetention,
		CategoryProtest, CategoryPolicy, CategoryOpinion,
		CategoryUnknown,
	}
}

// ParseCategory normalizes a free-form classifier answer to the closed
// set. Anything outside the set maps to unknown.
func ParseCategory(s string) Category {
	c := Category(normalizeToken(s))
	if validCategories[c] {
		return c
	}
	return CategoryUnknown
}

func normalizeToken(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= 'A' && ch <= 'Z':
			out = append(out, ch+('a'-'A'))
		case ch >= 'a' && ch <= 'z':
			out = append(out, ch)
		}
	}
	return string(out)
}
