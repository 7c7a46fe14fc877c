package handlers

import (
	"context"
	"net/http"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/platform/httpx"
	"github.com/lichtwerk/api/internal/services"
)

// SystemStatusProvider reports aggregate dependency health for readiness.
type SystemStatusProvider interface {
	Status(ctx context.Context) (services.SystemStatus, error)
}

// HealthHandlers answers the liveness and readiness probes.
type HealthHandlers struct {
	system SystemStatusProvider
}

// NewHealthHandlers constructs the probe handlers. A nil provider degrades
// readiness to a plain liveness answer, which keeps the router usable in
// tests that do not wire the full dependency graph.
func NewHealthHandlers(system SystemStatusProvider) *HealthHandlers {
	return &HealthHandlers{system: system}
}

// Healthz reports process liveness.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": domain.HealthStatusOK})
}

type checkResponse struct {
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latencyMs"`
}

type readyzResponse struct {
	Status      string                   `json:"status"`
	Version     string                   `json:"version,omitempty"`
	CommitSHA   string                   `json:"commitSha,omitempty"`
	Environment string                   `json:"environment,omitempty"`
	UptimeSec   int64                    `json:"uptimeSeconds"`
	Checks      map[string]checkResponse `json:"checks,omitempty"`
	PriceSync   *syncStateResponse       `json:"priceSync,omitempty"`
}

// Readyz probes the dependency graph and reports aggregate readiness.
// Degraded still answers 200 so load balancers keep routing; only error
// drops the instance from rotation.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.system == nil {
		httpx.WriteJSON(w, http.StatusOK, readyzResponse{Status: domain.HealthStatusOK})
		return
	}

	status, err := h.system.Status(ctx)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("health_check_failed", "health check failed", http.StatusServiceUnavailable))
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

	sync := newSyncStateResponse(status.Sync)
	payload := readyzResponse{
		Status:      status.Health.Status,
		Version:     status.Health.Version,
		CommitSHA:   status.Health.CommitSHA,
		Environment: status.Health.Environment,
		UptimeSec:   int64(status.Health.Uptime.Seconds()),
		Checks:      checks,
		PriceSync:   &sync,
	}

	code := http.StatusOK
	if status.Health.Status == domain.HealthStatusError {
		code = http.StatusServiceUnavailable
	}
	httpx.WriteJSON(w, code, payload)
}
