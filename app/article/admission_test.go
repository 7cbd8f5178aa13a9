package article

import (
	"testing"
	"time"
)

func completeArticle() *Article {
	return &Article{
		Title:       "ICE raid at local warehouse",
		PublishedAt: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		URL:         "https://example.com/raid",
		Coordinates: &Coordinates{Lat: 29.76, Lon: -95.37},
		Category:    CategoryRaid,
		Publisher:   "Example Herald",
	}
}

func TestAdmit_CompleteArticle(t *testing.T) {
	a := completeArticle()

	if !Admit(a) {
		t.Errorf("Expected complete article to be admitted, missing: %v", MissingFields(a))
	}
}

func TestAdmit_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Article)
		missing string
	}{
		{"no title", func(a *Article) { a.Title = "" }, "title"},
		{"no date", func(a *Article) { a.PublishedAt = time.Time{} }, "date"},
		{"no url", func(a *Article) { a.URL = "" }, "url"},
		{"no coordinates", func(a *Article) { a.Coordinates = nil }, "coordinates"},
		{"no category", func(a *Article) { a.Category = "" }, "category"},
		{"no publisher", func(a *Article) { a.Publisher = "" }, "publisher"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := completeArticle()
			tt.mutate(a)

			if Admit(a) {
				t.Error("Expected article to be rejected")
			}

			missing := MissingFields(a)
			if len(missing) != 1 || missing[0] != tt.missing {
				t.Errorf("Expected missing [%s], got %v", tt.missing, missing)
			}
		})
	}
}

func TestAdmit_OptionalFieldsNotRequired(t *testing.T) {
	a := completeArticle()
	a.Description = ""
	a.FullText = ""
	a.Address = ""
	a.Parsed = ParsedLocation{}

	if !Admit(a) {
		t.Errorf("Optional fields should not block admission, missing: %v", MissingFields(a))
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{"raid", CategoryRaid},
		{"Raid", CategoryRaid},
		{"  ARREST  ", CategoryArrest},
		{`"detention"`, CategoryDetention},
		{"protest.", CategoryProtest},
		{"policy", CategoryPolicy},
		{"opinion", CategoryOpinion},
		{"unknown", CategoryUnknown},
		{"deportation", CategoryUnknown},
		{"", CategoryUnknown},
		{"raid arrest", CategoryUnknown},
	}

	for _, tt := range tests {
		if got := ParseCategory(tt.input); got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
