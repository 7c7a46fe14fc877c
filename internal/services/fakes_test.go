package services

import (
	"context"
	"sync"
	"time"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/payments"
	"github.com/lichtwerk/api/internal/platform/pagination"
	"github.com/lichtwerk/api/internal/priceboard"
	"github.com/lichtwerk/api/internal/repositories"
)

var fixedTime = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

// fallbackSource serves the hardcoded fallback table, the deterministic
// fixture every pricing test runs against.
type fallbackSource struct {
	state domain.SyncState
}

func (s *fallbackSource) Table() domain.PriceTable { return domain.FallbackPriceTable() }
func (s *fallbackSource) State() domain.SyncState  { return s.state }

type fakeDistanceResolver struct {
	result domain.DistanceResult
	calls  int
}

func (r *fakeDistanceResolver) Resolve(ctx context.Context, postalCode string) domain.DistanceResult {
	r.calls++
	return r.result
}

type fakeBoard struct {
	rows []priceboard.Row
	err  error
}

func (b *fakeBoard) FetchRows(ctx context.Context) ([]priceboard.Row, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.rows, nil
}

type fakeCatalogWriter struct {
	received []domain.Design
	err      error
}

func (w *fakeCatalogWriter) ReplaceSyncedDesigns(ctx context.Context, designs []domain.Design) error {
	w.received = append(w.received, designs...)
	return w.err
}

// staticCatalog resolves designs from a fixed map, standing in for the
// catalog service in pricing and order tests.
type staticCatalog struct {
	designs map[string]domain.Design
}

func (c *staticCatalog) ListDesigns(ctx context.Context) ([]domain.Design, error) {
	designs := make([]domain.Design, 0, len(c.designs))
	for _, design := range c.designs {
		designs = append(designs, design)
	}
	return designs, nil
}

func (c *staticCatalog) GetDesign(ctx context.Context, designID string) (domain.Design, error) {
	design, ok := c.designs[designID]
	if !ok {
		return domain.Design{}, ErrDesignNotFound
	}
	return design, nil
}

// testDesign is the reference template used across the calculation tests:
// 400x200 cm, 12 m of LED, five elements.
var testDesign = domain.Design{
	ID:           "schriftzug-klassik",
	Name:         "Schriftzug Klassik",
	RefWidthCm:   400,
	RefHeightCm:  200,
	RefLEDLength: 12,
	ElementCount: 5,
}

func newTestCatalog() *staticCatalog {
	return &staticCatalog{designs: map[string]domain.Design{testDesign.ID: testDesign}}
}

type memoryOrderRepo struct {
	mu     sync.Mutex
	orders map[string]domain.Order
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{orders: map[string]domain.Order{}}
}

type notFoundErr struct{}

func (notFoundErr) Error() string       { return "not found" }
func (notFoundErr) IsNotFound() bool    { return true }
func (notFoundErr) IsConflict() bool    { return false }
func (notFoundErr) IsUnavailable() bool { return false }

var _ repositories.RepositoryError = notFoundErr{}

func (r *memoryOrderRepo) Insert(ctx context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

func (r *memoryOrderRepo) Update(ctx context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return notFoundErr{}
	}
	r.orders[order.ID] = order
	return nil
}

func (r *memoryOrderRepo) FindByID(ctx context.Context, orderID string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, notFoundErr{}
	}
	return order, nil
}

func (r *memoryOrderRepo) List(ctx context.Context, params pagination.Params) (repositories.OrderPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	page := repositories.OrderPage{}
	for _, order := range r.orders {
		page.Orders = append(page.Orders, order)
	}
	return page, nil
}

type fakePublisher struct {
	messages []OrderEventMessage
	err      error
}

func (p *fakePublisher) PublishOrderEvent(ctx context.Context, msg OrderEventMessage) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.messages = append(p.messages, msg)
	return "msg-1", nil
}

type fakePSP struct {
	requests  []payments.CheckoutRequest
	session   payments.CheckoutSession
	err       error
	lookups   []string
	details   payments.PaymentDetails
	lookupErr error
}

func (p *fakePSP) CreateCheckoutSession(ctx context.Context, req payments.CheckoutRequest) (payments.CheckoutSession, error) {
	if p.err != nil {
		return payments.CheckoutSession{}, p.err
	}
	p.requests = append(p.requests, req)
	return p.session, nil
}

func (p *fakePSP) LookupPayment(ctx context.Context, intentID string) (payments.PaymentDetails, error) {
	if p.lookupErr != nil {
		return payments.PaymentDetails{}, p.lookupErr
	}
	p.lookups = append(p.lookups, intentID)
	if p.details.IntentID != "" {
		return p.details, nil
	}
	return payments.PaymentDetails{IntentID: intentID, Status: payments.StatusPending}, nil
}
