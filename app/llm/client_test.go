package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

// roundTrip lets a test intercept the outgoing request and hand back a
// canned response.
type roundTrip func(*http.Request) (*http.Response, error)

func (f roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func testClient(rt roundTrip) *Client {
	return NewClient("https://api.example.com/v1/chat/completions", "test-model", "test-key", &http.Client{Transport: rt})
}

func TestClient_Complete(t *testing.T) {
	var captured struct {
		Model       string `json:"model"`
		Temperature float64
		MaxTokens   int `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	client := testClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", req.Method)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header: %s", got)
		}
		if err := json.NewDecoder(req.Body).Decode(&captured); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}
		return jsonResponse(200, `{"choices":[{"message":{"role":"assistant","content":"  raid  "}}]}`), nil
	})

	answer, err := client.Complete(context.Background(), "classify this", 20, 0.1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if answer != "raid" {
		t.Errorf("Expected trimmed answer %q, got %q", "raid", answer)
	}

	if captured.Model != "test-model" {
		t.Errorf("Unexpected model: %s", captured.Model)
	}
	if captured.MaxTokens != 20 {
		t.Errorf("Unexpected max_tokens: %d", captured.MaxTokens)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" || captured.Messages[0].Content != "classify this" {
		t.Errorf("Unexpected messages: %+v", captured.Messages)
	}
}

func TestClient_Complete_HTTPError(t *testing.T) {
	client := testClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(429, `{"error":{"message":"rate limited"}}`), nil
	})

	_, err := client.Complete(context.Background(), "prompt", 20, 0.1)
	if err == nil {
		t.Fatal("Expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("Expected body detail in error, got %v", err)
	}
}

func TestClient_Complete_APIError(t *testing.T) {
	client := testClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"error":{"message":"model overloaded"}}`), nil
	})

	_, err := client.Complete(context.Background(), "prompt", 20, 0.1)
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("Expected API error surfaced, got %v", err)
	}
}

func TestClient_Complete_NoChoices(t *testing.T) {
	client := testClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"choices":[]}`), nil
	})

	_, err := client.Complete(context.Background(), "prompt", 20, 0.1)
	if err == nil {
		t.Fatal("Expected error when response has no choices")
	}
}

func TestClient_Complete_MissingAPIKey(t *testing.T) {
	client := NewClient("https://api.example.com/v1/chat/completions", "test-model", "", nil)

	_, err := client.Complete(context.Background(), "prompt", 20, 0.1)
	if err == nil {
		t.Fatal("Expected error when API key is missing")
	}
}
