// Package geocode resolves coordinates to human-readable area names using
// a Nominatim-compatible reverse geocoding service.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

const (
	// DefaultBaseURL is the public Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// userAgent identifies the service per Nominatim's usage policy.
	userAgent = "civicfund/1.0"

	defaultTimeout = 10 * time.Second
)

// NominatimClient resolves coordinates via a Nominatim /reverse endpoint.
// Resolution never fails the caller: any transport or parse problem degrades
// to the unknown area.
type NominatimClient struct {
	baseURL    string
	httpClient *http.Client
}

// reverseResponse holds the subset of the Nominatim reverse payload we use.
type reverseResponse struct {
	Address struct {
		Suburb        string `json:"suburb"`
		Neighbourhood string `json:"neighbourhood"`
		Village       string `json:"village"`
		Town          string `json:"town"`
		City          string `json:"city"`
		County        string `json:"county"`
		State         string `json:"state"`
	} `json:"address"`
	DisplayName string `json:"display_name"`
}

// NewNominatimClient creates a reverse geocoder against the given base URL.
// An empty baseURL selects the public instance.
func NewNominatimClient(baseURL string) *NominatimClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &NominatimClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// ReverseGeocode returns the most specific locality name for the point, or
// the unknown area when the lookup fails.
func (c *NominatimClient) ReverseGeocode(ctx context.Context, loc model.GeoPoint) string {
	area, err := c.reverse(ctx, loc)
	if err != nil {
		slog.Warn("Reverse geocode failed",
			"lat", loc.Lat,
			"lon", loc.Lon,
			"error", err)
		return model.UnknownArea
	}
	return area
}

func (c *NominatimClient) reverse(ctx context.Context, loc model.GeoPoint) (string, error) {
	endpoint := fmt.Sprintf("%s/reverse?%s", c.baseURL, url.Values{
		"lat":    {fmt.Sprintf("%f", loc.Lat)},
		"lon":    {fmt.Sprintf("%f", loc.Lon)},
		"format": {"jsonv2"},
		"zoom":   {"14"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	area := firstNonEmpty(
		payload.Address.Suburb,
		payload.Address.Neighbourhood,
		payload.Address.Village,
		payload.Address.Town,
		payload.Address.City,
		payload.Address.County,
		payload.Address.State,
	)
	if area == "" {
		return "", fmt.Errorf("no locality in response")
	}
	return area, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
