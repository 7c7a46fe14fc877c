package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrNoRoute indicates the routing service could not produce a route.
var ErrNoRoute = errors.New("geo: no route found")

// OSRMClient computes driving distances against an OSRM instance.
type OSRMClient struct {
	baseURL string
	client  *http.Client
}

// OSRMClientDeps bundles the dependencies for NewOSRMClient.
type OSRMClientDeps struct {
	BaseURL string
	Client  *http.Client
}

// NewOSRMClient validates the dependencies and returns a ready client.
func NewOSRMClient(deps OSRMClientDeps) (*OSRMClient, error) {
	if strings.TrimSpace(deps.BaseURL) == "" {
		return nil, errors.New("geo: osrm base url is required")
	}
	if deps.Client == nil {
		return nil, errors.New("geo: http client is required")
	}
	return &OSRMClient{
		baseURL: strings.TrimRight(deps.BaseURL, "/"),
		client:  deps.Client,
	}, nil
}

type osrmRouteResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"`
	} `json:"routes"`
	Code string `json:"code"`
}

// DrivingDistanceKm returns the one-way driving distance between two coordinates in kilometres.
// OSRM expects coordinates in lon,lat order.
func (c *OSRMClient) DrivingDistanceKm(ctx context.Context, from, to Coordinate) (float64, error) {
	u, err := url.Parse(c.baseURL + "/route/v1/driving/")
	if err != nil {
		return 0, fmt.Errorf("geo: bad osrm base url: %w", err)
	}
	u.Path += fmt.Sprintf("%f,%f;%f,%f", from.Lon, from.Lat, to.Lon, to.Lat)

	q := u.Query()
	q.Set("overview", "false")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("geo: build osrm request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("geo: osrm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("geo: osrm status %s", resp.Status)
	}

	var data osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("geo: decode osrm response: %w", err)
	}

	if data.Code != "" && data.Code != "Ok" {
		return 0, fmt.Errorf("geo: osrm code %s", data.Code)
	}
	if len(data.Routes) == 0 {
		return 0, ErrNoRoute
	}

	return data.Routes[0].Distance / 1000.0, nil
}
