package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/platform/httpx"
	"github.com/lichtwerk/api/internal/services"
)

// OrderQuoter prices a full order configuration.
type OrderQuoter interface {
	QuoteOrder(ctx context.Context, order domain.Order) (domain.OrderQuote, error)
}

// QuoteHandlers prices ad-hoc configurations without persisting an order.
// The storefront uses this for live price preview while the customer is
// still dialing in sizes and options.
type QuoteHandlers struct {
	quotes  OrderQuoter
	catalog services.DesignCatalog
}

// NewQuoteHandlers constructs a new QuoteHandlers instance.
func NewQuoteHandlers(quotes OrderQuoter, catalog services.DesignCatalog) *QuoteHandlers {
	return &QuoteHandlers{quotes: quotes, catalog: catalog}
}

// Routes registers the /quotes endpoints.
func (h *QuoteHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.quote)
}

type quoteSignRequest struct {
	DesignID      string  `json:"designId"`
	WidthCm       float64 `json:"widthCm"`
	Waterproof    bool    `json:"waterproof"`
	MultiPart     bool    `json:"multiPart"`
	UVPrint       bool    `json:"uvPrint"`
	HangingSystem bool    `json:"hangingSystem"`
	Express       bool    `json:"express"`
	Enabled       *bool   `json:"enabled"`
}

type quoteRequest struct {
	Signs        []quoteSignRequest `json:"signs"`
	PostalCode   string             `json:"postalCode"`
	Pickup       bool               `json:"pickup"`
	Installation bool               `json:"installation"`
}

func (h *QuoteHandlers) quote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.quotes == nil || h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "quote service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req quoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid request body", http.StatusBadRequest))
		return
	}
	if len(req.Signs) == 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "at least one sign is required", http.StatusBadRequest))
		return
	}

	order := domain.Order{
		Status:     domain.OrderConfiguring,
		PostalCode: strings.TrimSpace(req.PostalCode),
		Shipping: domain.ShippingSelection{
			Pickup:       req.Pickup,
			Installation: req.Installation,
		},
	}
	for i, input := range req.Signs {
		design, err := h.catalog.GetDesign(ctx, strings.TrimSpace(input.DesignID))
		if err != nil {
			writeServiceError(ctx, w, err)
			return
		}
		enabled := true
		if input.Enabled != nil {
			enabled = *input.Enabled
		}
		order.Signs = append(order.Signs, domain.SignConfiguration{
			ID:            fmt.Sprintf("preview-%d", i+1),
			DesignID:      design.ID,
			WidthCm:       input.WidthCm,
			HeightCm:      domain.ProportionalHeight(design.RefWidthCm, design.RefHeightCm, input.WidthCm),
			Waterproof:    input.Waterproof,
			MultiPart:     input.MultiPart,
			UVPrint:       input.UVPrint,
			HangingSystem: input.HangingSystem,
			Express:       input.Express,
			Enabled:       enabled,
		})
	}

	quote, err := h.quotes.QuoteOrder(ctx, order)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newQuoteResponse(quote))
}
