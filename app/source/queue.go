package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// QueueSource pulls unprocessed records from the upstream articles API
// and posts acknowledgments back. The list endpoint wraps a CSV blob in
// a JSON envelope {statusCode, body}.
type QueueSource struct {
	name       string
	listURL    string
	markURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

var _ Source = (*QueueSource)(nil)

func NewQueueSource(name, listURL, markURL, apiKey string, timeout time.Duration, httpClient *http.Client) *QueueSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &QueueSource{
		name:       name,
		listURL:    listURL,
		markURL:    markURL,
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: httpClient,
	}
}

func (s *QueueSource) Name() string {
	return s.name
}

type queueEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

func (s *QueueSource) ListUnprocessed(ctx context.Context) (string, error) {
	if s.listURL == "" {
		return "", fmt.Errorf("queue source %q has no list endpoint configured", s.name)
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, s.listURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create list request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to list unprocessed records: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("list HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var envelope queueEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("failed to decode list response: %w", err)
	}
	if envelope.StatusCode != http.StatusOK {
		return "", fmt.Errorf("list returned status code %d", envelope.StatusCode)
	}

	return strings.ReplaceAll(envelope.Body, "\r\n", "\n"), nil
}

func (s *QueueSource) MarkProcessed(ctx context.Context, url string) error {
	if s.markURL == "" {
		return fmt.Errorf("queue source %q has no mark endpoint configured", s.name)
	}

	body, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return fmt.Errorf("failed to marshal mark request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, s.markURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create mark request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to mark record processed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mark HTTP error %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	return nil
}
