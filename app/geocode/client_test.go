package geocode

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

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
	return NewClient("https://maps.example.com/findplacefromtext/json", "test-key", &http.Client{Transport: rt})
}

func TestClient_Locate(t *testing.T) {
	var capturedQuery map[string][]string

	client := testClient(func(req *http.Request) (*http.Response, error) {
		capturedQuery = req.URL.Query()
		return jsonResponse(200, `{
			"status": "OK",
			"candidates": [
				{"geometry": {"location": {"lat": 29.7604, "lng": -95.3698}}, "formatted_address": "Houston, TX, USA"}
			]
		}`), nil
	})

	point, err := client.Locate(context.Background(), "Houston, TX, USA")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if point == nil {
		t.Fatal("Expected a point, got nil")
	}
	if point.Lat != 29.7604 || point.Lon != -95.3698 {
		t.Errorf("Unexpected coordinates: %+v", point)
	}

	if got := capturedQuery["input"]; len(got) != 1 || got[0] != "Houston, TX, USA" {
		t.Errorf("Unexpected input param: %v", got)
	}
	if got := capturedQuery["inputtype"]; len(got) != 1 || got[0] != "textquery" {
		t.Errorf("Unexpected inputtype param: %v", got)
	}
	if got := capturedQuery["key"]; len(got) != 1 || got[0] != "test-key" {
		t.Errorf("Unexpected key param: %v", got)
	}
}

func TestClient_Locate_NoMatch(t *testing.T) {
	client := testClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"status": "ZERO_RESULTS", "candidates": []}`), nil
	})

	point, err := client.Locate(context.Background(), "nowhere in particular")
	if err != nil {
		t.Fatalf("No match must not be an error, got %v", err)
	}
	if point != nil {
		t.Errorf("Expected nil point for no match, got %+v", point)
	}
}

func TestClient_Locate_EmptyAddress(t *testing.T) {
	called := false
	client := testClient(func(req *http.Request) (*http.Response, error) {
		called = true
		return jsonResponse(200, `{"status": "OK", "candidates": []}`), nil
	})

	point, err := client.Locate(context.Background(), "")
	if err != nil || point != nil {
		t.Errorf("Expected nil, nil for empty address, got %+v, %v", point, err)
	}
	if called {
		t.Error("No request should be made for an empty address")
	}
}

func TestClient_Locate_HTTPError(t *testing.T) {
	client := testClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(500, `{}`), nil
	})

	_, err := client.Locate(context.Background(), "Houston")
	if err == nil {
		t.Fatal("Expected error for non-200 response")
	}
}
