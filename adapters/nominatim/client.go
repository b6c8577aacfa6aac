// Package nominatim implements the reverse-geocoding provider boundary
// against a Nominatim-compatible HTTP endpoint. The provider enforces
// roughly one request per second server-side; throttling is the caller's
// responsibility (see internal/geo.BatchGeocoder).
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"fieldlens/internal/errors"
	"fieldlens/ports"
)

// Client is a minimal reverse-geocoding HTTP client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// New creates a client for the given base URL. Per-call timeouts are
// carried by the caller's context, so the underlying http.Client has none.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		userAgent:  "fieldlens/1.0",
		httpClient: &http.Client{},
	}
}

type reverseResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
		Region  string `json:"region"`
		Country string `json:"country"`
	} `json:"address"`
}

// ReverseGeocode resolves a coordinate pair to a place name. The language
// parameter becomes the provider's accept-language hint.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64, language string) (ports.GeocodeResult, error) {
	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(lat, 'f', 4, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', 4, 64))
	if language != "" {
		query.Set("accept-language", language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+query.Encode(), nil)
	if err != nil {
		return ports.GeocodeResult{}, errors.ExternalService("geocoding", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.GeocodeResult{}, errors.ExternalService("geocoding", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.GeocodeResult{}, errors.ExternalService("geocoding",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var payload reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ports.GeocodeResult{}, errors.ExternalService("geocoding", err)
	}

	city := payload.Address.City
	if city == "" {
		city = payload.Address.Town
	}
	if city == "" {
		city = payload.Address.Village
	}
	region := payload.Address.State
	if region == "" {
		region = payload.Address.Region
	}

	return ports.GeocodeResult{
		City:    city,
		Region:  region,
		Country: payload.Address.Country,
	}, nil
}
