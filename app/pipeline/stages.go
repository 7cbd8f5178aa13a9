package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/icemap/agent/app/article"
)

// Per-stage input caps; anything beyond adds token cost without
// changing the answer.
const (
	relevanceTextLimit = 2000
	locationTextLimit  = 1000
	sanitizeTextLimit  = 500
	categoryTextLimit  = 2000
	parsedTextLimit    = 1500
)

// Stage helpers. Each returns its value plus a fellBack flag so the
// fallback policy stays visible where the stage is invoked. An adapter
// failure never propagates out of a stage.

// judgeRelevance treats any adapter failure or unparseable answer as
// not relevant.
func (p *Pipeline) judgeRelevance(ctx context.Context, text string) (relevant bool, fellBack bool) {
	answer, err := p.completer.Complete(ctx, fmt.Sprintf(relevancePrompt, clip(text, relevanceTextLimit)), 50, 0.1)
	if err != nil {
		return false, true
	}
	return strings.EqualFold(strings.TrimSpace(answer), "true"), false
}

// "None"-like answers from the extractor mean no usable location.
var noLocationAnswers = map[string]bool{
	"none": true, "unknown": true, "not mentioned": true,
	"no location": true, "n/a": true,
}

// extractLocation returns the most specific place reference in the
// text, or "" when there is none or the adapter failed.
func (p *Pipeline) extractLocation(ctx context.Context, text string) (location string, fellBack bool) {
	answer, err := p.completer.Complete(ctx, fmt.Sprintf(extractLocationPrompt, clip(text, locationTextLimit)), 50, 0.1)
	if err != nil {
		return "", true
	}
	answer = strings.TrimSpace(answer)
	if answer == "" || noLocationAnswers[strings.ToLower(answer)] {
		return "", false
	}
	return answer, false
}

// sanitizeAddress rewrites an ambiguous place reference into a
// geocoder-friendly string; on failure the raw phrase passes through
// unchanged.
func (p *Pipeline) sanitizeAddress(ctx context.Context, raw, text string) (address string, fellBack bool) {
	prompt := fmt.Sprintf(sanitizeAddressPrompt, raw, clip(text, sanitizeTextLimit))
	answer, err := p.completer.Complete(ctx, prompt, 100, 0.1)
	if err != nil {
		return raw, true
	}
	answer = strings.Trim(strings.TrimSpace(answer), `"'`)
	if answer == "" {
		return raw, true
	}
	return answer, false
}

// categorize classifies into the closed category set; failures and
// out-of-set answers land on unknown.
func (p *Pipeline) categorize(ctx context.Context, text string) (category article.Category, fellBack bool) {
	answer, err := p.completer.Complete(ctx, fmt.Sprintf(categorizePrompt, clip(text, categoryTextLimit)), 20, 0.1)
	if err != nil {
		return article.CategoryUnknown, true
	}
	return article.ParseCategory(answer), false
}

const unknownPublisher = "Unknown Publisher"

// resolvePublisher falls back to "Unknown Publisher" on any failure.
func (p *Pipeline) resolvePublisher(ctx context.Context, url string) (publisher string, fellBack bool) {
	answer, err := p.completer.Complete(ctx, fmt.Sprintf(publisherPrompt, url), 15, 0.1)
	if err != nil {
		return unknownPublisher, true
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return unknownPublisher, true
	}
	return answer, false
}

// parseLocation attaches best-effort structured location details; on
// any failure the fields stay empty.
func (p *Pipeline) parseLocation(ctx context.Context, text string) (parsed article.ParsedLocation, fellBack bool) {
	answer, err := p.completer.Complete(ctx, fmt.Sprintf(parseLocationPrompt, clip(text, parsedTextLimit)), 200, 0.1)
	if err != nil {
		return article.ParsedLocation{}, true
	}

	answer = extractJSONObject(answer)
	if answer == "" {
		return article.ParsedLocation{}, true
	}

	var loc article.ParsedLocation
	if err := json.Unmarshal([]byte(answer), &loc); err != nil {
		return article.ParsedLocation{}, true
	}
	return loc, false
}

// extractJSONObject isolates the first {...} span in a completion
// answer, tolerating prose or code fences around it.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}
