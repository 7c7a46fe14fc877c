package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ErrNoGeocodeResult indicates the geocoder returned an empty result set.
var ErrNoGeocodeResult = errors.New("geo: no geocoding result")

// GeocodeResult carries the resolved coordinate and display name for a query.
type GeocodeResult struct {
	Coord       Coordinate
	DisplayName string
}

// NominatimClient geocodes postal codes against a Nominatim instance.
type NominatimClient struct {
	baseURL   string
	country   string
	userAgent string
	client    *http.Client
}

// NominatimClientDeps bundles the dependencies for NewNominatimClient.
type NominatimClientDeps struct {
	BaseURL   string
	Country   string
	UserAgent string
	Client    *http.Client
}

// NewNominatimClient validates the dependencies and returns a ready client.
func NewNominatimClient(deps NominatimClientDeps) (*NominatimClient, error) {
	if strings.TrimSpace(deps.BaseURL) == "" {
		return nil, errors.New("geo: nominatim base url is required")
	}
	if deps.Client == nil {
		return nil, errors.New("geo: http client is required")
	}
	country := strings.TrimSpace(deps.Country)
	if country == "" {
		country = "Germany"
	}
	userAgent := strings.TrimSpace(deps.UserAgent)
	if userAgent == "" {
		userAgent = "lichtwerk-api/1.0"
	}
	return &NominatimClient{
		baseURL:   strings.TrimRight(deps.BaseURL, "/"),
		country:   country,
		userAgent: userAgent,
		client:    deps.Client,
	}, nil
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// GeocodePostalCode resolves a postal code to a coordinate and a display name.
func (c *NominatimClient) GeocodePostalCode(ctx context.Context, postalCode string) (GeocodeResult, error) {
	u, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("geo: bad nominatim base url: %w", err)
	}

	q := u.Query()
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("q", postalCode+", "+c.country)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("geo: build nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("geo: nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GeocodeResult{}, fmt.Errorf("geo: nominatim status %s", resp.Status)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return GeocodeResult{}, fmt.Errorf("geo: decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return GeocodeResult{}, fmt.Errorf("%w for %q", ErrNoGeocodeResult, postalCode)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("geo: parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("geo: parse lon: %w", err)
	}

	return GeocodeResult{
		Coord:       Coordinate{Lat: lat, Lon: lon},
		DisplayName: results[0].DisplayName,
	}, nil
}
