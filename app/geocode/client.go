package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Point is a geographic coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// Client resolves free-text place references against a Places-style
// find-place-from-text endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewClient(endpoint, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type findPlaceResponse struct {
	Status     string `json:"status"`
	Candidates []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"candidates"`
}

// Locate resolves an address to coordinates. A nil Point with a nil
// error means the geocoder had no match; that is not a failure.
func (c *Client) Locate(ctx context.Context, address string) (*Point, error) {
	if address == "" {
		return nil, nil
	}
	if c.endpoint == "" || c.apiKey == "" {
		return nil, fmt.Errorf("geocode client misconfigured: endpoint and API key required")
	}

	params := url.Values{}
	params.Set("input", address)
	params.Set("inputtype", "textquery")
	params.Set("fields", "geometry/location,formatted_address")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var payload findPlaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if payload.Status != "OK" || len(payload.Candidates) == 0 {
		return nil, nil
	}

	loc := payload.Candidates[0].Geometry.Location
	return &Point{Lat: loc.Lat, Lon: loc.Lng}, nil
}

func (c *Client) client() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}
