package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/priceboard"
)

// SyncRecorder receives one observability event per refresh attempt.
type SyncRecorder interface {
	RecordSync(ctx context.Context, ok bool, entries int, elapsed time.Duration)
}

// PriceSyncService owns the price table snapshot. It starts on the fixed
// fallback table and layers successful board syncs over it; a failed sync
// leaves the current snapshot untouched and only flips the connection
// state. Reads never block on a refresh.
type PriceSyncService struct {
	board   BoardFetcher
	catalog CatalogWriter
	logger  EventLogger
	metrics SyncRecorder
	now     func() time.Time

	mu    sync.RWMutex
	table domain.PriceTable
	state domain.SyncState
}

// PriceSyncServiceDeps bundles the dependencies for NewPriceSyncService.
// Board and Catalog are optional; without a board the service simply stays
// on fallback prices.
type PriceSyncServiceDeps struct {
	Board   BoardFetcher
	Catalog CatalogWriter
	Logger  EventLogger
	Metrics SyncRecorder
	Now     func() time.Time
}

// NewPriceSyncService returns a service seeded with the fallback table.
func NewPriceSyncService(deps PriceSyncServiceDeps) (*PriceSyncService, error) {
	logger := deps.Logger
	if logger == nil {
		logger = noopEventLogger
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	table := domain.FallbackPriceTable()
	return &PriceSyncService{
		board:   deps.Board,
		catalog: deps.Catalog,
		logger:  logger,
		metrics: deps.Metrics,
		now:     now,
		table:   table,
		state:   domain.SyncState{EntryCount: table.Len()},
	}, nil
}

var _ PriceSource = (*PriceSyncService)(nil)

// Table returns the current snapshot.
func (s *PriceSyncService) Table() domain.PriceTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// State returns the connection status for the UI sync indicator.
func (s *PriceSyncService) State() domain.SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Sync performs one refresh attempt and returns the resulting state. It
// never returns an error; failures are recorded on the state instead.
// Manual and scheduled refreshes share this method and may run
// concurrently, each merge is a complete consistent snapshot.
func (s *PriceSyncService) Sync(ctx context.Context) domain.SyncState {
	start := s.now()

	if s.board == nil {
		return s.fail(ctx, priceboard.ErrNoToken.Error(), start)
	}
	rows, err := s.board.FetchRows(ctx)
	if err != nil {
		return s.fail(ctx, err.Error(), start)
	}

	entries, designs := priceboard.DecodeRows(rows)
	if len(entries) == 0 {
		return s.fail(ctx, "board returned no mappable price rows", start)
	}

	s.mu.Lock()
	s.table = s.table.Merge(entries)
	s.state = domain.SyncState{
		Connected:  true,
		LastSyncAt: s.now(),
		EntryCount: s.table.Len(),
	}
	state := s.state
	s.mu.Unlock()

	if s.catalog != nil && len(designs) > 0 {
		if err := s.catalog.ReplaceSyncedDesigns(ctx, designs); err != nil {
			// Prices are already merged; a catalog write failure must
			// not undo them.
			s.logger(ctx, "pricing.sync.catalog_failed", map[string]any{
				"designs": len(designs),
				"error":   err.Error(),
			})
		}
	}

	elapsed := s.now().Sub(start)
	if s.metrics != nil {
		s.metrics.RecordSync(ctx, true, len(entries), elapsed)
	}
	s.logger(ctx, "pricing.sync.completed", map[string]any{
		"rows":      len(rows),
		"entries":   len(entries),
		"designs":   len(designs),
		"elapsedMs": elapsed.Milliseconds(),
	})
	return state
}

func (s *PriceSyncService) fail(ctx context.Context, reason string, start time.Time) domain.SyncState {
	s.mu.Lock()
	s.state.Connected = false
	s.state.LastError = reason
	state := s.state
	s.mu.Unlock()

	elapsed := s.now().Sub(start)
	if s.metrics != nil {
		s.metrics.RecordSync(ctx, false, 0, elapsed)
	}
	s.logger(ctx, "pricing.sync.failed", map[string]any{
		"error":     reason,
		"elapsedMs": elapsed.Milliseconds(),
	})
	return state
}

// Run refreshes on the given interval until the context is cancelled. The
// first refresh fires immediately so the process does not serve a full
// interval of fallback prices after a deploy.
func (s *PriceSyncService) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("price sync: refresh interval must be positive")
	}

	s.Sync(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sync(ctx)
		}
	}
}
