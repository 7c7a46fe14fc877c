package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/lichtwerk/api/internal/domain"
)

type previewQuoter struct {
	quote domain.OrderQuote
	err   error
	order domain.Order
}

func (f *previewQuoter) QuoteOrder(_ context.Context, order domain.Order) (domain.OrderQuote, error) {
	f.order = order
	return f.quote, f.err
}

func quoteTestRouter(quoter OrderQuoter, catalog *fakeCatalog) chi.Router {
	r := chi.NewRouter()
	r.Route("/quotes", NewQuoteHandlers(quoter, catalog).Routes)
	return r
}

func TestQuotePreviewDerivesHeight(t *testing.T) {
	catalog := &fakeCatalog{designs: []domain.Design{
		{ID: "schriftzug-klassik", Name: "Schriftzug Klassik", RefWidthCm: 400, RefHeightCm: 200, RefLEDLength: 12, ElementCount: 5},
	}}
	quoter := &previewQuoter{quote: domain.OrderQuote{Total: 61331}}
	router := quoteTestRouter(quoter, catalog)

	body := bytes.NewBufferString(`{"signs":[{"designId":"schriftzug-klassik","widthCm":200}],"postalCode":"49074"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quotes", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(quoter.order.Signs) != 1 {
		t.Fatalf("expected 1 sign, got %d", len(quoter.order.Signs))
	}
	sign := quoter.order.Signs[0]
	if sign.HeightCm != 100 {
		t.Fatalf("expected derived height 100, got %v", sign.HeightCm)
	}
	if !sign.Enabled {
		t.Fatal("expected sign enabled by default")
	}
	if quoter.order.PostalCode != "49074" {
		t.Fatalf("unexpected postal code %q", quoter.order.PostalCode)
	}
}

func TestQuotePreviewHonorsDisabledFlag(t *testing.T) {
	catalog := &fakeCatalog{designs: []domain.Design{
		{ID: "logo-rund", RefWidthCm: 120, RefHeightCm: 120, RefLEDLength: 6, ElementCount: 1},
	}}
	quoter := &previewQuoter{}
	router := quoteTestRouter(quoter, catalog)

	body := bytes.NewBufferString(`{"signs":[{"designId":"logo-rund","widthCm":100,"enabled":false}]}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quotes", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if quoter.order.Signs[0].Enabled {
		t.Fatal("expected sign disabled")
	}
}

func TestQuotePreviewUnknownDesign(t *testing.T) {
	router := quoteTestRouter(&previewQuoter{}, &fakeCatalog{})

	body := bytes.NewBufferString(`{"signs":[{"designId":"missing","widthCm":100}]}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quotes", body))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestQuotePreviewRequiresSigns(t *testing.T) {
	router := quoteTestRouter(&previewQuoter{}, &fakeCatalog{})

	body := bytes.NewBufferString(`{"signs":[]}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quotes", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["error"] != "invalid_request" {
		t.Fatalf("unexpected error code %v", payload["error"])
	}
}
