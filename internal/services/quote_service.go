package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lichtwerk/api/internal/domain"
)

// QuoteRecorder receives one observability event per computed order quote.
type QuoteRecorder interface {
	RecordQuote(ctx context.Context, lines int, totalCents int64, elapsed time.Duration)
}

// QuoteService aggregates per-line prices, shipping, and installation into
// an order total. Disabled lines are priced at zero and excluded from every
// sum; express is billed inside each line, never again at order level.
type QuoteService struct {
	pricing  *SignPricingEngine
	shipping *ShippingCalculator
	catalog  DesignCatalog
	logger   EventLogger
	metrics  QuoteRecorder
	now      func() time.Time
}

// QuoteServiceDeps bundles the dependencies for NewQuoteService.
type QuoteServiceDeps struct {
	Pricing  *SignPricingEngine
	Shipping *ShippingCalculator
	Catalog  DesignCatalog
	Logger   EventLogger
	Metrics  QuoteRecorder
	Now      func() time.Time
}

// NewQuoteService validates the dependencies and returns the service.
func NewQuoteService(deps QuoteServiceDeps) (*QuoteService, error) {
	if deps.Pricing == nil {
		return nil, errors.New("quote service: pricing engine is required")
	}
	if deps.Shipping == nil {
		return nil, errors.New("quote service: shipping calculator is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("quote service: design catalog is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = noopEventLogger
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &QuoteService{
		pricing:  deps.Pricing,
		shipping: deps.Shipping,
		catalog:  deps.Catalog,
		logger:   logger,
		metrics:  deps.Metrics,
		now:      now,
	}, nil
}

// QuoteOrder computes the full derived total for the order's current
// configuration. A line referencing an unknown design fails the quote; a
// missing postal code does not, it only withholds the affected costs.
func (s *QuoteService) QuoteOrder(ctx context.Context, order domain.Order) (domain.OrderQuote, error) {
	start := s.now()

	quote := domain.OrderQuote{}
	for _, sign := range order.EnabledSigns() {
		design, err := s.catalog.GetDesign(ctx, sign.DesignID)
		if err != nil {
			return domain.OrderQuote{}, fmt.Errorf("quote order %s: design %s: %w", order.ID, sign.DesignID, err)
		}
		line := s.pricing.PriceSign(ctx, design, sign)
		quote.Lines = append(quote.Lines, line)
		quote.LineTotal += line.Total
	}

	quote.Shipping = s.shipping.ShippingQuote(ctx, order)
	quote.Installation = s.shipping.InstallationQuote(ctx, order)

	quote.Subtotal = quote.LineTotal + quote.Shipping.Cost + quote.Installation.Cost
	quote.Tax = int64(math.Round(float64(quote.Subtotal) * domain.VATRate))
	quote.Total = quote.Subtotal + quote.Tax

	for _, sign := range order.Signs {
		quote.Validation = append(quote.Validation, domain.ValidateSign(sign)...)
	}
	if quote.Shipping.RequiresPostalCode {
		quote.Validation = append(quote.Validation, domain.ValidationMessage{
			Field:   "postalCode",
			Message: "postal code required for oversized signs",
		})
	}

	elapsed := s.now().Sub(start)
	if s.metrics != nil {
		s.metrics.RecordQuote(ctx, len(quote.Lines), quote.Total, elapsed)
	}
	s.logger(ctx, "quote.order.calculated", map[string]any{
		"orderId":       order.ID,
		"lines":         len(quote.Lines),
		"lineTotal":     quote.LineTotal,
		"shippingCents": quote.Shipping.Cost,
		"installCents":  quote.Installation.Cost,
		"totalCents":    quote.Total,
		"elapsedMs":     elapsed.Milliseconds(),
	})
	return quote, nil
}
