package services

import (
	"context"
	"time"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/priceboard"
)

// EventLogger is the structured logging hook handed to services. Events use
// dotted names such as "pricing.sign.calculated".
type EventLogger func(ctx context.Context, event string, fields map[string]any)

func noopEventLogger(context.Context, string, map[string]any) {}

// PriceSource exposes the current price table snapshot and its sync status.
// Reads never block on a refresh; the snapshot is swapped whole.
type PriceSource interface {
	Table() domain.PriceTable
	State() domain.SyncState
}

// DistanceResolver resolves road distance and place name from the shop's
// origin to a destination postal code. It never fails; it degrades.
type DistanceResolver interface {
	Resolve(ctx context.Context, postalCode string) domain.DistanceResult
}

// BoardFetcher queries the remote pricing board for all current rows.
type BoardFetcher interface {
	FetchRows(ctx context.Context) ([]priceboard.Row, error)
}

// DesignCatalog resolves designs for pricing and listing.
type DesignCatalog interface {
	ListDesigns(ctx context.Context) ([]domain.Design, error)
	GetDesign(ctx context.Context, designID string) (domain.Design, error)
}

// CatalogWriter receives designs extracted from board rows during a sync.
type CatalogWriter interface {
	ReplaceSyncedDesigns(ctx context.Context, designs []domain.Design) error
}

// OrderEventMessage is the payload published when an order reaches a
// terminal state. TotalCents is the full quoted total including tax.
type OrderEventMessage struct {
	OrderID        string
	Event          string
	PostalCode     string
	TotalCents     int64
	SubmittedAt    time.Time
	IdempotencyKey string
}

// OrderEventPublisher dispatches order lifecycle events to the job queue.
// The returned string is the broker's message ID.
type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, msg OrderEventMessage) (string, error)
}
