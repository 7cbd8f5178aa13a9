package article

// Required fields for admission. A record missing any of these is
// useless to the map consumer, so it is discarded rather than stored
// incomplete.

// Admit reports whether the article carries every mandatory field.
func Admit(a *Article) bool {
	return len(MissingFields(a)) == 0
}

// MissingFields lists the mandatory fields the article lacks.
func MissingFields(a *Article) []string {
	var missing []string
	if a.Title == "" {
		missing = append(missing, "title")
	}
	if a.PublishedAt.IsZero() {
		missing = append(missing, "date")
	}
	if a.URL == "" {
		missing = append(missing, "url")
	}
	if a.Coordinates == nil {
		missing = append(missing, "coordinates")
	}
	if a.Category == "" {
		missing = append(missing, "category")
	}
	if a.Publisher == "" {
		missing = append(missing, "publisher")
	}
	return missing
}
