package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lichtwerk/api/internal/platform/httpx"
	"github.com/lichtwerk/api/internal/services"
)

// DesignHandlers exposes the public design catalog.
type DesignHandlers struct {
	catalog services.DesignCatalog
}

// NewDesignHandlers constructs a new DesignHandlers instance.
func NewDesignHandlers(catalog services.DesignCatalog) *DesignHandlers {
	return &DesignHandlers{catalog: catalog}
}

// Routes registers the /designs endpoints.
func (h *DesignHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listDesigns)
	r.Get("/{designID}", h.getDesign)
}

func (h *DesignHandlers) listDesigns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "catalog unavailable", http.StatusServiceUnavailable))
		return
	}

	designs, err := h.catalog.ListDesigns(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	payload := make([]designResponse, 0, len(designs))
	for _, design := range designs {
		payload = append(payload, newDesignResponse(design))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"designs": payload})
}

func (h *DesignHandlers) getDesign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "catalog unavailable", http.StatusServiceUnavailable))
		return
	}

	designID := strings.TrimSpace(chi.URLParam(r, "designID"))
	if designID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "design id is required", http.StatusBadRequest))
		return
	}

	design, err := h.catalog.GetDesign(ctx, designID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newDesignResponse(design))
}
