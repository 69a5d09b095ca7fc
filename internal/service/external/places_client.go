package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"assistant/internal/domain/services"
)

const (
	// DefaultPlacesBaseURL is the Google Places text search endpoint
	DefaultPlacesBaseURL = "https://places.googleapis.com/v1/places:searchText"
	// DefaultPlacesTimeout is the default HTTP timeout for Places requests
	DefaultPlacesTimeout = 15 * time.Second

	placesFieldMask = "places.id,places.displayName,places.googleMapsUri,places.location"
)

// PlacesClient implements services.PlaceLookup for the Google Places API.
type PlacesClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewPlacesClient creates a new Google Places client.
func NewPlacesClient(apiKey string) *PlacesClient {
	return NewPlacesClientWithConfig(apiKey, DefaultPlacesBaseURL, DefaultPlacesTimeout)
}

// NewPlacesClientWithConfig creates a Places client with custom configuration.
func NewPlacesClientWithConfig(apiKey string, baseURL string, timeout time.Duration) *PlacesClient {
	return &PlacesClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SearchPlace returns the best match for query, or nil when nothing matches.
func (c *PlacesClient) SearchPlace(ctx context.Context, query string) (*services.PlaceRecord, error) {
	payload := map[string]interface{}{
		"textQuery":      query,
		"languageCode":   "en",
		"maxResultCount": 1,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", placesFieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var placesResp placesResponse
	if err := json.Unmarshal(body, &placesResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(placesResp.Places) == 0 {
		return nil, nil
	}

	p := placesResp.Places[0]
	return &services.PlaceRecord{
		Reference: p.ID,
		Name:      p.DisplayName.Text,
		URI:       p.GoogleMapsURI,
		Latitude:  p.Location.Latitude,
		Longitude: p.Location.Longitude,
	}, nil
}

// placesResponse is the subset of the searchText response selected by the field mask.
type placesResponse struct {
	Places []struct {
		ID          string `json:"id"`
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		GoogleMapsURI string `json:"googleMapsUri"`
		Location      struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"location"`
	} `json:"places"`
}
