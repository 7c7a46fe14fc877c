package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/lichtwerk/api/internal/domain"
)

func newTestQuoteService(t *testing.T, distance *fakeDistanceResolver) *QuoteService {
	t.Helper()
	engine, err := NewSignPricingEngine(SignPricingEngineDeps{Prices: &fallbackSource{}, Now: fixedClock})
	if err != nil {
		t.Fatalf("NewSignPricingEngine: %v", err)
	}
	shipping, err := NewShippingCalculator(ShippingCalculatorDeps{Prices: &fallbackSource{}, Distance: distance})
	if err != nil {
		t.Fatalf("NewShippingCalculator: %v", err)
	}
	quotes, err := NewQuoteService(QuoteServiceDeps{
		Pricing:  engine,
		Shipping: shipping,
		Catalog:  newTestCatalog(),
		Now:      fixedClock,
	})
	if err != nil {
		t.Fatalf("NewQuoteService: %v", err)
	}
	return quotes
}

func TestQuoteOrderTotalsRoundTrip(t *testing.T) {
	quotes := newTestQuoteService(t, &fakeDistanceResolver{})
	order := domain.Order{
		ID: "ord-1",
		Signs: []domain.SignConfiguration{
			{ID: "a", DesignID: testDesign.ID, WidthCm: 200, HeightCm: 100, Enabled: true},
			{ID: "b", DesignID: testDesign.ID, WidthCm: 100, HeightCm: 50, Enabled: true},
			{ID: "c", DesignID: testDesign.ID, WidthCm: 400, HeightCm: 200, Enabled: false},
		},
	}

	quote, err := quotes.QuoteOrder(context.Background(), order)
	if err != nil {
		t.Fatalf("QuoteOrder: %v", err)
	}
	if len(quote.Lines) != 2 {
		t.Fatalf("lines = %d, want 2 (disabled line excluded)", len(quote.Lines))
	}

	var lineSum int64
	for _, line := range quote.Lines {
		lineSum += line.Total
	}
	if quote.LineTotal != lineSum {
		t.Fatalf("line total = %d, want sum of lines %d", quote.LineTotal, lineSum)
	}

	wantSubtotal := quote.LineTotal + quote.Shipping.Cost + quote.Installation.Cost
	if quote.Subtotal != wantSubtotal {
		t.Fatalf("subtotal = %d, want %d", quote.Subtotal, wantSubtotal)
	}
	wantTax := int64(math.Round(float64(quote.Subtotal) * 0.19))
	if quote.Tax != wantTax {
		t.Fatalf("tax = %d, want %d", quote.Tax, wantTax)
	}
	if quote.Total != quote.Subtotal+quote.Tax {
		t.Fatalf("total = %d, want subtotal+tax %d", quote.Total, quote.Subtotal+quote.Tax)
	}
}

func TestQuoteOrderUsesPerLineFlags(t *testing.T) {
	quotes := newTestQuoteService(t, &fakeDistanceResolver{})
	base := domain.Order{
		ID: "ord-1",
		Signs: []domain.SignConfiguration{
			{ID: "a", DesignID: testDesign.ID, WidthCm: 200, HeightCm: 100, Enabled: true},
			{ID: "b", DesignID: testDesign.ID, WidthCm: 200, HeightCm: 100, Express: true, Enabled: true},
		},
	}

	quote, err := quotes.QuoteOrder(context.Background(), base)
	if err != nil {
		t.Fatalf("QuoteOrder: %v", err)
	}
	if quote.Lines[0].Express != 0 {
		t.Fatalf("line a express = %d, want 0", quote.Lines[0].Express)
	}
	if quote.Lines[1].Express == 0 {
		t.Fatal("line b express surcharge missing")
	}
	// Express appears exactly once, inside the flagged line.
	wantLineTotal := quote.Lines[0].Total + quote.Lines[1].Total
	if quote.LineTotal != wantLineTotal {
		t.Fatalf("line total = %d, want %d with no extra order-level express", quote.LineTotal, wantLineTotal)
	}
}

func TestQuoteOrderIncludesInstallation(t *testing.T) {
	distance := &fakeDistanceResolver{result: domain.DistanceResult{Km: 50, Place: "Osnabrück"}}
	quotes := newTestQuoteService(t, distance)
	order := domain.Order{
		ID:         "ord-1",
		PostalCode: "49074",
		Shipping:   domain.ShippingSelection{Installation: true},
		Signs: []domain.SignConfiguration{
			{ID: "a", DesignID: testDesign.ID, WidthCm: 200, HeightCm: 100, Enabled: true},
		},
	}

	quote, err := quotes.QuoteOrder(context.Background(), order)
	if err != nil {
		t.Fatalf("QuoteOrder: %v", err)
	}
	if quote.Shipping.Cost != 0 {
		t.Fatalf("shipping cost = %d, want 0 with installation", quote.Shipping.Cost)
	}
	if quote.Installation.Cost != 11800 {
		t.Fatalf("installation = %d, want 11800", quote.Installation.Cost)
	}
	if quote.Installation.Place != "Osnabrück" {
		t.Fatalf("place = %q", quote.Installation.Place)
	}
}

func TestQuoteOrderValidationMessages(t *testing.T) {
	quotes := newTestQuoteService(t, &fakeDistanceResolver{})
	order := domain.Order{
		ID: "ord-1",
		Signs: []domain.SignConfiguration{
			// Wider than the multi-part threshold without the flag, and
			// oversized without a postal code.
			{ID: "a", DesignID: testDesign.ID, WidthCm: 300, HeightCm: 150, Enabled: true},
		},
	}

	quote, err := quotes.QuoteOrder(context.Background(), order)
	if err != nil {
		t.Fatalf("QuoteOrder: %v", err)
	}
	if len(quote.Validation) == 0 {
		t.Fatal("expected validation messages")
	}
	if !quote.Shipping.RequiresPostalCode {
		t.Fatal("expected RequiresPostalCode for the oversized sign")
	}
	// Validation never withholds the line prices.
	if quote.LineTotal <= 0 {
		t.Fatalf("line total = %d, want positive despite validation problems", quote.LineTotal)
	}
}

func TestQuoteOrderUnknownDesign(t *testing.T) {
	quotes := newTestQuoteService(t, &fakeDistanceResolver{})
	order := domain.Order{
		ID: "ord-1",
		Signs: []domain.SignConfiguration{
			{ID: "a", DesignID: "missing", WidthCm: 100, HeightCm: 50, Enabled: true},
		},
	}
	if _, err := quotes.QuoteOrder(context.Background(), order); !errors.Is(err, ErrDesignNotFound) {
		t.Fatalf("err = %v, want ErrDesignNotFound", err)
	}
}
