package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/platform/httpx"
)

// PriceSyncer triggers and reports on price board synchronisation.
type PriceSyncer interface {
	Sync(ctx context.Context) domain.SyncState
	State() domain.SyncState
}

// InternalHandlers exposes operational endpoints for the shop staff.
// These are not part of the public storefront surface and are expected to
// sit behind network-level access control.
type InternalHandlers struct {
	sync   PriceSyncer
	system SystemStatusProvider
}

// NewInternalHandlers constructs a new InternalHandlers instance.
func NewInternalHandlers(sync PriceSyncer, system SystemStatusProvider) *InternalHandlers {
	return &InternalHandlers{sync: sync, system: system}
}

// Routes registers the /internal endpoints.
func (h *InternalHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/pricing/sync", h.triggerSync)
	r.Get("/pricing/status", h.syncStatus)
	r.Get("/system/status", h.systemStatus)
}

type syncStateResponse struct {
	Connected  bool      `json:"connected"`
	LastError  string    `json:"lastError,omitempty"`
	LastSyncAt time.Time `json:"lastSyncAt"`
	EntryCount int       `json:"entryCount"`
}

func newSyncStateResponse(state domain.SyncState) syncStateResponse {
	return syncStateResponse{
		Connected:  state.Connected,
		LastError:  state.LastError,
		LastSyncAt: state.LastSyncAt,
		EntryCount: state.EntryCount,
	}
}

func (h *InternalHandlers) triggerSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.sync == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "price sync unavailable", http.StatusServiceUnavailable))
		return
	}

	state := h.sync.Sync(ctx)
	code := http.StatusOK
	if !state.Connected {
		// The table stays serviceable on fallback prices, so a failed sync
		// is reported rather than treated as a server error.
		code = http.StatusBadGateway
	}
	httpx.WriteJSON(w, code, newSyncStateResponse(state))
}

func (h *InternalHandlers) syncStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.sync == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "price sync unavailable", http.StatusServiceUnavailable))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newSyncStateResponse(h.sync.State()))
}

type systemStatusResponse struct {
	Status      string                   `json:"status"`
	Version     string                   `json:"version,omitempty"`
	CommitSHA   string                   `json:"commitSha,omitempty"`
	Environment string                   `json:"environment,omitempty"`
	UptimeSec   int64                    `json:"uptimeSeconds"`
	Checks      map[string]checkResponse `json:"checks,omitempty"`
	PriceSync   syncStateResponse        `json:"priceSync"`
}

func (h *InternalHandlers) systemStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.system == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "system status unavailable", http.StatusServiceUnavailable))
		return
	}

	status, err := h.system.Status(ctx)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("status_failed", "system status failed", http.StatusServiceUnavailable))
		return
	}

	checks := make(map[string]checkResponse, len(status.Health.Checks))
	for name, check := range status.Health.Checks {
		checks[name] = checkResponse{
			Status:    check.Status,
			Detail:    check.Detail,
			Error:     check.Error,
			LatencyMs: check.Latency.Milliseconds(),
		}
	}

	httpx.WriteJSON(w, http.StatusOK, systemStatusResponse{
		Status:      status.Health.Status,
		Version:     status.Health.Version,
		CommitSHA:   status.Health.CommitSHA,
		Environment: status.Health.Environment,
		UptimeSec:   int64(status.Health.Uptime.Seconds()),
		Checks:      checks,
		PriceSync:   newSyncStateResponse(status.Sync),
	})
}
