package fulltext

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/text/unicode/norm"
)

// Text beyond this length adds cost without improving classification.
const maxTextLength = 5000

var whitespaceRe = regexp.MustCompile(`\s+`)

// Fetcher downloads a page and extracts its visible article text.
type Fetcher struct {
	userAgent  string
	httpClient *http.Client
}

func NewFetcher(userAgent string, httpClient *http.Client) *Fetcher {
	return &Fetcher{
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

// Fetch returns the extracted text of the page at pageURL. An empty
// result with nil error means the page had no usable text.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return ExtractText(data, pageURL), nil
}

// ExtractText pulls the visible article text out of raw HTML. It tries
// readability first, then falls back to walking common content
// selectors.
func ExtractText(data []byte, pageURL string) string {
	if len(data) == 0 {
		return ""
	}

	parsedURL, _ := url.Parse(pageURL)

	if article, err := readability.FromReader(strings.NewReader(string(data)), parsedURL); err == nil {
		if text := cleanText(article.TextContent); text != "" {
			return text
		}
	}

	text, err := selectorText(data)
	if err != nil {
		slog.Debug("Selector extraction failed", "url", pageURL, "error", err)
		return ""
	}
	return cleanText(text)
}

// Content areas checked in order when readability comes up empty.
var contentSelectors = []string{
	"article", ".article-content", ".story-content", ".post-content",
	".entry-content", ".content", "main", ".main-content",
}

func selectorText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			var parts []string
			sel.Each(func(_ int, s *goquery.Selection) {
				parts = append(parts, strings.TrimSpace(s.Text()))
			})
			if joined := strings.TrimSpace(strings.Join(parts, " ")); joined != "" {
				return joined, nil
			}
		}
	}

	return strings.TrimSpace(doc.Find("body").Text()), nil
}

func cleanText(s string) string {
	s = norm.NFC.String(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if len(s) > maxTextLength {
		cut := maxTextLength
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = strings.TrimSpace(s[:cut])
	}
	return s
}

func (f *Fetcher) client() *http.Client {
	if f.httpClient != nil {
		return f.httpClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}
