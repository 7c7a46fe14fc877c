package geo

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNominatimGeocodePostalCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Fatalf("expected format=json, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "1" {
			t.Fatalf("expected limit=1, got %q", got)
		}
		if got := r.Header.Get("User-Agent"); got == "" {
			t.Fatal("expected user agent header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"52.5323","lon":"13.3846","display_name":"10115, Mitte, Berlin, Deutschland"}]`))
	}))
	defer srv.Close()

	client, err := NewNominatimClient(NominatimClientDeps{
		BaseURL: srv.URL,
		Country: "Germany",
		Client:  srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewNominatimClient returned error: %v", err)
	}

	result, err := client.GeocodePostalCode(context.Background(), "10115")
	if err != nil {
		t.Fatalf("GeocodePostalCode returned error: %v", err)
	}
	if math.Abs(result.Coord.Lat-52.5323) > 1e-6 || math.Abs(result.Coord.Lon-13.3846) > 1e-6 {
		t.Fatalf("unexpected coordinate: %#v", result.Coord)
	}
	if result.DisplayName != "10115, Mitte, Berlin, Deutschland" {
		t.Fatalf("unexpected display name: %q", result.DisplayName)
	}
}

func TestNominatimGeocodeEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, err := NewNominatimClient(NominatimClientDeps{BaseURL: srv.URL, Client: srv.Client()})
	if err != nil {
		t.Fatalf("NewNominatimClient returned error: %v", err)
	}

	_, err = client.GeocodePostalCode(context.Background(), "00000")
	if !errors.Is(err, ErrNoGeocodeResult) {
		t.Fatalf("expected ErrNoGeocodeResult, got %v", err)
	}
}

func TestOSRMDrivingDistance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":447250.5}]}`))
	}))
	defer srv.Close()

	client, err := NewOSRMClient(OSRMClientDeps{BaseURL: srv.URL, Client: srv.Client()})
	if err != nil {
		t.Fatalf("NewOSRMClient returned error: %v", err)
	}

	km, err := client.DrivingDistanceKm(context.Background(),
		Coordinate{Lat: 52.2765, Lon: 8.0460},
		Coordinate{Lat: 52.5323, Lon: 13.3846},
	)
	if err != nil {
		t.Fatalf("DrivingDistanceKm returned error: %v", err)
	}
	if math.Abs(km-447.2505) > 1e-6 {
		t.Fatalf("unexpected distance: %f", km)
	}
}

func TestOSRMRejectsErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer srv.Close()

	client, err := NewOSRMClient(OSRMClientDeps{BaseURL: srv.URL, Client: srv.Client()})
	if err != nil {
		t.Fatalf("NewOSRMClient returned error: %v", err)
	}

	if _, err := client.DrivingDistanceKm(context.Background(), Coordinate{}, Coordinate{}); err == nil {
		t.Fatal("expected error for NoRoute response")
	}
}
