package fulltext

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractText_ReadableArticle(t *testing.T) {
	html := `<!DOCTYPE html>
<html>
<head><title>Raid coverage</title></head>
<body>
<article>
<h1>ICE raid at Houston warehouse</h1>
<p>Federal agents detained forty workers during an early morning operation at a warehouse on the east side of Houston.</p>
<p>Witnesses described vans blocking the loading docks while agents checked identification documents.</p>
</article>
</body>
</html>`

	text := ExtractText([]byte(html), "https://example.com/raid")
	if text == "" {
		t.Fatal("Expected extracted text, got empty string")
	}
	if !strings.Contains(text, "detained forty workers") {
		t.Errorf("Expected article body in extracted text, got: %s", text)
	}
}

func TestExtractText_SelectorFallback(t *testing.T) {
	// Too sparse for readability, but carries a known content selector.
	html := `<html><body>
<script>var tracking = true;</script>
<div class="article-content">Agents arrested two people outside the courthouse.</div>
</body></html>`

	text := ExtractText([]byte(html), "https://example.com/arrest")
	if !strings.Contains(text, "arrested two people") {
		t.Errorf("Expected selector fallback to find content, got: %s", text)
	}
	if strings.Contains(text, "tracking") {
		t.Errorf("Script content must be stripped, got: %s", text)
	}
}

func TestExtractText_EmptyInput(t *testing.T) {
	if text := ExtractText(nil, "https://example.com"); text != "" {
		t.Errorf("Expected empty text for empty input, got: %s", text)
	}
}

func TestCleanText_CollapsesWhitespace(t *testing.T) {
	got := cleanText("  line one\n\n\tline   two  ")
	if got != "line one line two" {
		t.Errorf("Expected collapsed whitespace, got %q", got)
	}
}

func TestCleanText_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("word ", 2000)
	got := cleanText(long)
	if len(got) > maxTextLength {
		t.Errorf("Expected text capped at %d bytes, got %d", maxTextLength, len(got))
	}
}

func TestCleanText_RuneSafeTruncation(t *testing.T) {
	long := strings.Repeat("é", maxTextLength)
	got := cleanText(long)
	if len(got) > maxTextLength {
		t.Errorf("Expected text capped at %d bytes, got %d", maxTextLength, len(got))
	}
	if !strings.HasSuffix(got, "é") {
		t.Error("Truncation must not split a multi-byte rune")
	}
}

func TestFetcher_Fetch(t *testing.T) {
	var capturedUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `<html><body><article><p>ICE agents conducted a raid at a local business, detaining several workers for questioning about their immigration status.</p></article></body></html>`)
	}))
	defer server.Close()

	fetcher := NewFetcher("test-agent/1.0", server.Client())
	text, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(text, "detaining several workers") {
		t.Errorf("Expected page text, got: %s", text)
	}
	if capturedUA != "test-agent/1.0" {
		t.Errorf("Expected custom user agent, got %q", capturedUA)
	}
}

func TestFetcher_Fetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher("test-agent/1.0", server.Client())
	_, err := fetcher.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}
}
