package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestQueueSource_ListUnprocessed(t *testing.T) {
	var capturedKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedKey = r.Header.Get("x-api-key")
		fmt.Fprint(w, `{"statusCode": 200, "body": "title,date,url\r\nRaid coverage,2026-03-14,https://example.com/raid\r\n"}`)
	}))
	defer server.Close()

	src := NewQueueSource("upstream", server.URL, "", "secret", 10*time.Second, server.Client())

	blob, err := src.ListUnprocessed(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if capturedKey != "secret" {
		t.Errorf("Expected x-api-key header, got %q", capturedKey)
	}

	want := "title,date,url\nRaid coverage,2026-03-14,https://example.com/raid\n"
	if blob != want {
		t.Errorf("Expected CRLF-normalized body %q, got %q", want, blob)
	}
}

func TestQueueSource_ListUnprocessed_EnvelopeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"statusCode": 500, "body": ""}`)
	}))
	defer server.Close()

	src := NewQueueSource("upstream", server.URL, "", "", 10*time.Second, server.Client())

	if _, err := src.ListUnprocessed(context.Background()); err == nil {
		t.Fatal("Expected error for non-200 envelope status code")
	}
}

func TestQueueSource_ListUnprocessed_NoEndpoint(t *testing.T) {
	src := NewQueueSource("upstream", "", "", "", 10*time.Second, nil)
	if _, err := src.ListUnprocessed(context.Background()); err == nil {
		t.Fatal("Expected error when list endpoint is not configured")
	}
}

func TestQueueSource_MarkProcessed(t *testing.T) {
	var captured map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("Failed to decode mark request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	src := NewQueueSource("upstream", "", server.URL, "secret", 10*time.Second, server.Client())

	if err := src.MarkProcessed(context.Background(), "https://example.com/raid"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if captured["url"] != "https://example.com/raid" {
		t.Errorf("Expected url in request body, got %v", captured)
	}
}

func TestQueueSource_MarkProcessed_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "record not found", http.StatusNotFound)
	}))
	defer server.Close()

	src := NewQueueSource("upstream", "", server.URL, "", 10*time.Second, server.Client())

	if err := src.MarkProcessed(context.Background(), "https://example.com/raid"); err == nil {
		t.Fatal("Expected error for non-200 response")
	}
}
