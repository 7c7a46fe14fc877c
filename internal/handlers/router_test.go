package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/services"
)

func TestRouterHealthz(t *testing.T) {
	router := NewRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["status"] != domain.HealthStatusOK {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestRouterNotFoundEnvelope(t *testing.T) {
	router := NewRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["error"] != errorNotFoundCode {
		t.Fatalf("unexpected error code %v", payload["error"])
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := NewRouter(WithDesignRoutes(func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/designs/", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestRouterMountsGroups(t *testing.T) {
	catalog := &fakeCatalog{designs: []domain.Design{
		{ID: "logo-rund", Name: "Logo Rund", RefWidthCm: 120, RefHeightCm: 120, RefLEDLength: 6, ElementCount: 1},
	}}
	router := NewRouter(
		WithDesignRoutes(NewDesignHandlers(catalog).Routes),
		WithOrderRoutes(NewOrderHandlers(&fakeOrderManager{order: sampleOrder()}, &fakeOrderQuoter{}).Routes),
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/designs/logo-rund", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("designs: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("orders: expected 201, got %d", rec.Code)
	}

	// Groups without a registrar are not mounted at all.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("webhooks: expected 404, got %d", rec.Code)
	}
}

func TestRouterReadyzWithSystem(t *testing.T) {
	system := &fakeSystem{status: services.SystemStatus{
		Health: domain.SystemHealthReport{Status: domain.HealthStatusOK},
		Sync:   domain.SyncState{Connected: true},
	}}
	router := NewRouter(WithHealthHandlers(NewHealthHandlers(system)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload readyzResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Status != domain.HealthStatusOK {
		t.Fatalf("unexpected status %q", payload.Status)
	}
	if payload.PriceSync == nil || !payload.PriceSync.Connected {
		t.Fatal("expected connected price sync in readiness payload")
	}
}

func TestRouterReadyzErrorStatus(t *testing.T) {
	system := &fakeSystem{status: services.SystemStatus{
		Health: domain.SystemHealthReport{Status: domain.HealthStatusError},
	}}
	router := NewRouter(WithHealthHandlers(NewHealthHandlers(system)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
