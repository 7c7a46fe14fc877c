package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/platform/httpx"
	"github.com/lichtwerk/api/internal/services"
)

// DistanceHandlers resolves road distance from the workshop to a postal
// code, for delivery previews in the storefront.
type DistanceHandlers struct {
	resolver services.DistanceResolver
}

// NewDistanceHandlers constructs a new DistanceHandlers instance.
func NewDistanceHandlers(resolver services.DistanceResolver) *DistanceHandlers {
	return &DistanceHandlers{resolver: resolver}
}

// Routes registers the /distance endpoints.
func (h *DistanceHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.resolve)
}

type distanceResponse struct {
	PostalCode string `json:"postalCode"`
	Km         int    `json:"km"`
	Place      string `json:"place,omitempty"`
}

func (h *DistanceHandlers) resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.resolver == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "distance service unavailable", http.StatusServiceUnavailable))
		return
	}

	postalCode := strings.TrimSpace(r.URL.Query().Get("postalCode"))
	if !domain.ValidPostalCode(postalCode) {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_postal_code", "postal code must be five digits", http.StatusBadRequest))
		return
	}

	result := h.resolver.Resolve(ctx, postalCode)
	httpx.WriteJSON(w, http.StatusOK, distanceResponse{
		PostalCode: postalCode,
		Km:         result.Km,
		Place:      result.Place,
	})
}
