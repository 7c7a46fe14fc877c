package services

import (
	"context"
	"errors"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/repositories"
)

// SystemStatus is the operational snapshot behind the storefront's status
// indicator: dependency health plus the price-board connection state.
type SystemStatus struct {
	Health domain.SystemHealthReport
	Sync   domain.SyncState
}

// SystemService aggregates health and sync status for the readiness and
// status endpoints.
type SystemService struct {
	health repositories.HealthRepository
	prices PriceSource
}

// SystemServiceDeps bundles the dependencies for NewSystemService.
type SystemServiceDeps struct {
	Health repositories.HealthRepository
	Prices PriceSource
}

// NewSystemService validates the dependencies and returns the service.
func NewSystemService(deps SystemServiceDeps) (*SystemService, error) {
	if deps.Health == nil {
		return nil, errors.New("system service: health repository is required")
	}
	if deps.Prices == nil {
		return nil, errors.New("system service: price source is required")
	}
	return &SystemService{health: deps.Health, prices: deps.Prices}, nil
}

// Status collects the dependency report and the current sync state. A
// disconnected price board degrades the overall status but never fails the
// call; pricing still works on fallback data.
func (s *SystemService) Status(ctx context.Context) (SystemStatus, error) {
	report, err := s.health.Collect(ctx)
	if err != nil {
		return SystemStatus{}, err
	}

	sync := s.prices.State()
	if !sync.Connected && report.Status == domain.HealthStatusOK {
		report.Status = domain.HealthStatusDegraded
	}

	return SystemStatus{Health: report, Sync: sync}, nil
}

// SyncState exposes the price-board connection state alone, for the
// lightweight status poll the configurator uses.
func (s *SystemService) SyncState() domain.SyncState {
	return s.prices.State()
}
