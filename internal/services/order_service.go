package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/payments"
	"github.com/lichtwerk/api/internal/platform/pagination"
	"github.com/lichtwerk/api/internal/repositories"
)

var (
	// ErrOrderNotFound signals an unknown order ID.
	ErrOrderNotFound = errors.New("order: not found")
	// ErrSignNotFound signals an unknown sign line within an order.
	ErrSignNotFound = errors.New("order: sign not found")
	// ErrInvalidTransition is returned for a status change the state
	// machine does not allow.
	ErrInvalidTransition = errors.New("order: invalid status transition")
	// ErrNotConfirmed gates submission on the explicit acknowledgment.
	ErrNotConfirmed = errors.New("order: confirmation required before submission")
	// ErrValidationFailed blocks submission while configuration problems
	// remain.
	ErrValidationFailed = errors.New("order: configuration is invalid")
	// ErrInvalidPostalCode rejects malformed destination codes.
	ErrInvalidPostalCode = errors.New("order: postal code must be five digits")
)

// SignInput carries the customer-editable fields of one sign line. Height
// is always derived from the width through the design's reference ratio.
type SignInput struct {
	DesignID      string
	WidthCm       float64
	Waterproof    bool
	MultiPart     bool
	UVPrint       bool
	HangingSystem bool
	Express       bool
}

// SubmitResult is everything the storefront needs after a submission: the
// final order, its frozen quote, and the PSP checkout handoff.
type SubmitResult struct {
	Order    domain.Order
	Quote    domain.OrderQuote
	Checkout payments.CheckoutSession
}

// CheckoutURLs are the storefront return addresses passed to the PSP.
type CheckoutURLs struct {
	SuccessURL string
	CancelURL  string
}

// OrderService drives orders through the configuration state machine and
// performs the submission side effects.
type OrderService struct {
	orders    repositories.OrderRepository
	catalog   DesignCatalog
	quotes    *QuoteService
	publisher OrderEventPublisher
	psp       payments.Provider
	urls      CheckoutURLs
	logger    EventLogger
	idGen     func() string
	now       func() time.Time

	installationDisabled bool
}

// OrderServiceDeps bundles the dependencies for NewOrderService. Publisher
// and PSP are optional so local development works without GCP and Stripe
// credentials; submission then only persists the status change.
type OrderServiceDeps struct {
	Orders    repositories.OrderRepository
	Catalog   DesignCatalog
	Quotes    *QuoteService
	Publisher OrderEventPublisher
	PSP       payments.Provider
	URLs      CheckoutURLs
	Logger    EventLogger
	IDGen     func() string
	Now       func() time.Time

	// InstallationDisabled turns the installation offering off; selecting
	// it then fails validation instead of pricing to zero shipping.
	InstallationDisabled bool
}

// NewOrderService validates the dependencies and returns the service.
func NewOrderService(deps OrderServiceDeps) (*OrderService, error) {
	if deps.Orders == nil {
		return nil, errors.New("order service: order repository is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("order service: design catalog is required")
	}
	if deps.Quotes == nil {
		return nil, errors.New("order service: quote service is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = noopEventLogger
	}
	idGen := deps.IDGen
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &OrderService{
		orders:    deps.Orders,
		catalog:   deps.Catalog,
		quotes:    deps.Quotes,
		publisher: deps.Publisher,
		psp:       deps.PSP,
		urls:      deps.URLs,
		logger:    logger,
		idGen:     idGen,
		now:       now,

		installationDisabled: deps.InstallationDisabled,
	}, nil
}

// CreateOrder opens a new empty draft.
func (s *OrderService) CreateOrder(ctx context.Context) (domain.Order, error) {
	now := s.now().UTC()
	order := domain.Order{
		ID:        s.idGen(),
		Status:    domain.OrderConfiguring,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	s.logger(ctx, "order.created", map[string]any{"orderId": order.ID})
	return order, nil
}

// GetOrder fetches a single order.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.Order{}, ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return order, nil
}

// ListOrders pages through orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, params pagination.Params) (repositories.OrderPage, error) {
	page, err := s.orders.List(ctx, params)
	if err != nil {
		return repositories.OrderPage{}, fmt.Errorf("list orders: %w", err)
	}
	return page, nil
}

// AddSign appends a configured line to the order. The design must exist;
// height is derived from the design's reference ratio.
func (s *OrderService) AddSign(ctx context.Context, orderID string, input SignInput) (domain.Order, error) {
	sign, err := s.buildSign(ctx, s.idGen(), input)
	if err != nil {
		return domain.Order{}, err
	}
	return s.mutate(ctx, orderID, func(order *domain.Order) error {
		order.Signs = append(order.Signs, sign)
		return nil
	})
}

// UpdateSign replaces the customer-editable fields of one line. Resizing
// re-derives the height.
func (s *OrderService) UpdateSign(ctx context.Context, orderID, signID string, input SignInput) (domain.Order, error) {
	sign, err := s.buildSign(ctx, signID, input)
	if err != nil {
		return domain.Order{}, err
	}
	return s.mutate(ctx, orderID, func(order *domain.Order) error {
		for i := range order.Signs {
			if order.Signs[i].ID == signID {
				sign.Enabled = order.Signs[i].Enabled
				order.Signs[i] = sign
				return nil
			}
		}
		return ErrSignNotFound
	})
}

// RemoveSign deletes a line from the order.
func (s *OrderService) RemoveSign(ctx context.Context, orderID, signID string) (domain.Order, error) {
	return s.mutate(ctx, orderID, func(order *domain.Order) error {
		for i := range order.Signs {
			if order.Signs[i].ID == signID {
				order.Signs = append(order.Signs[:i], order.Signs[i+1:]...)
				return nil
			}
		}
		return ErrSignNotFound
	})
}

// SetSignEnabled includes or excludes a line from totals without deleting
// its configuration.
func (s *OrderService) SetSignEnabled(ctx context.Context, orderID, signID string, enabled bool) (domain.Order, error) {
	return s.mutate(ctx, orderID, func(order *domain.Order) error {
		for i := range order.Signs {
			if order.Signs[i].ID == signID {
				order.Signs[i].Enabled = enabled
				return nil
			}
		}
		return ErrSignNotFound
	})
}

// SetPostalCode sets the destination. An empty code clears it.
func (s *OrderService) SetPostalCode(ctx context.Context, orderID, postalCode string) (domain.Order, error) {
	postalCode = strings.TrimSpace(postalCode)
	if postalCode != "" && !domain.ValidPostalCode(postalCode) {
		return domain.Order{}, ErrInvalidPostalCode
	}
	return s.mutate(ctx, orderID, func(order *domain.Order) error {
		order.PostalCode = postalCode
		return nil
	})
}

// SetShipping records the delivery choice. Installation clears pickup; the
// two are mutually exclusive.
func (s *OrderService) SetShipping(ctx context.Context, orderID string, selection domain.ShippingSelection) (domain.Order, error) {
	if selection.Installation && s.installationDisabled {
		return domain.Order{}, fmt.Errorf("%w: installation is not offered", ErrValidationFailed)
	}
	if selection.Installation {
		selection.Pickup = false
	}
	return s.mutate(ctx, orderID, func(order *domain.Order) error {
		order.Shipping = selection
		return nil
	})
}

// Review moves a draft into the review stage.
func (s *OrderService) Review(ctx context.Context, orderID string) (domain.Order, error) {
	return s.transition(ctx, orderID, domain.OrderReviewing)
}

// Confirm records the explicit acknowledgment and advances the order.
func (s *OrderService) Confirm(ctx context.Context, orderID string, acknowledged bool) (domain.Order, error) {
	if !acknowledged {
		return domain.Order{}, ErrNotConfirmed
	}
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.Status.CanTransition(domain.OrderConfirmed) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, domain.OrderConfirmed)
	}
	order.Status = domain.OrderConfirmed
	order.Confirmed = true
	return s.persist(ctx, order)
}

// Submit finalizes a confirmed order: the quote is computed one last time,
// the order event is published, and the PSP checkout session is opened.
// Validation problems block submission here even though they never blocked
// pricing.
func (s *OrderService) Submit(ctx context.Context, orderID string) (SubmitResult, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return SubmitResult{}, err
	}
	if !order.Status.CanTransition(domain.OrderSubmitted) {
		return SubmitResult{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, domain.OrderSubmitted)
	}
	if !order.Confirmed {
		return SubmitResult{}, ErrNotConfirmed
	}
	if len(order.EnabledSigns()) == 0 {
		return SubmitResult{}, fmt.Errorf("%w: no enabled signs", ErrValidationFailed)
	}

	quote, err := s.quotes.QuoteOrder(ctx, order)
	if err != nil {
		return SubmitResult{}, err
	}
	if len(quote.Validation) > 0 {
		return SubmitResult{}, fmt.Errorf("%w: %d problems", ErrValidationFailed, len(quote.Validation))
	}

	submittedAt := s.now().UTC()
	order.Status = domain.OrderSubmitted
	order.UpdatedAt = submittedAt
	if err := s.orders.Update(ctx, order); err != nil {
		return SubmitResult{}, fmt.Errorf("submit order %s: %w", orderID, err)
	}

	result := SubmitResult{Order: order, Quote: quote}

	if s.publisher != nil {
		messageID, err := s.publisher.PublishOrderEvent(ctx, OrderEventMessage{
			OrderID:        order.ID,
			Event:          "order.submitted",
			PostalCode:     order.PostalCode,
			TotalCents:     quote.Total,
			SubmittedAt:    submittedAt,
			IdempotencyKey: "submit-" + order.ID,
		})
		if err != nil {
			// The order is already submitted; the event is best effort
			// and reconciled by the nightly export.
			s.logger(ctx, "order.submit.publish_failed", map[string]any{
				"orderId": order.ID,
				"error":   err.Error(),
			})
		} else {
			s.logger(ctx, "order.submit.published", map[string]any{
				"orderId":   order.ID,
				"messageId": messageID,
			})
		}
	}

	if s.psp != nil {
		session, err := s.psp.CreateCheckoutSession(ctx, payments.CheckoutRequest{
			OrderID:        order.ID,
			TotalCents:     quote.Total,
			SuccessURL:     s.urls.SuccessURL,
			CancelURL:      s.urls.CancelURL,
			IdempotencyKey: "submit-" + order.ID,
			Items:          checkoutItems(quote),
		})
		if err != nil {
			return SubmitResult{}, fmt.Errorf("submit order %s: checkout: %w", orderID, err)
		}
		result.Checkout = session
	}

	s.logger(ctx, "order.submitted", map[string]any{
		"orderId":    order.ID,
		"totalCents": quote.Total,
		"lines":      len(quote.Lines),
	})
	return result, nil
}

func checkoutItems(quote domain.OrderQuote) []payments.CheckoutLineItem {
	items := make([]payments.CheckoutLineItem, 0, len(quote.Lines)+3)
	for _, line := range quote.Lines {
		items = append(items, payments.CheckoutLineItem{
			Name:        "Leuchtschild",
			Description: fmt.Sprintf("%.2f m², %d W", line.AreaM2, line.PowerW),
			Quantity:    1,
			AmountCents: line.Total,
		})
	}
	if quote.Shipping.Cost > 0 {
		items = append(items, payments.CheckoutLineItem{Name: "Versand", Quantity: 1, AmountCents: quote.Shipping.Cost})
	}
	if quote.Installation.Cost > 0 {
		items = append(items, payments.CheckoutLineItem{Name: "Montage", Quantity: 1, AmountCents: quote.Installation.Cost})
	}
	if quote.Tax > 0 {
		items = append(items, payments.CheckoutLineItem{Name: "MwSt. 19%", Quantity: 1, AmountCents: quote.Tax})
	}
	return items
}

func (s *OrderService) buildSign(ctx context.Context, signID string, input SignInput) (domain.SignConfiguration, error) {
	design, err := s.catalog.GetDesign(ctx, input.DesignID)
	if err != nil {
		return domain.SignConfiguration{}, err
	}
	height := domain.ProportionalHeight(design.RefWidthCm, design.RefHeightCm, input.WidthCm)
	return domain.SignConfiguration{
		ID:            signID,
		DesignID:      design.ID,
		WidthCm:       input.WidthCm,
		HeightCm:      height,
		Waterproof:    input.Waterproof,
		MultiPart:     input.MultiPart,
		UVPrint:       input.UVPrint,
		HangingSystem: input.HangingSystem,
		Express:       input.Express,
		Enabled:       true,
	}, nil
}

// mutate applies an edit to the order and drops it back to Configuring,
// clearing any earlier acknowledgment. Editing a submitted order is
// rejected.
func (s *OrderService) mutate(ctx context.Context, orderID string, edit func(*domain.Order) error) (domain.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.Status == domain.OrderSubmitted {
		return domain.Order{}, fmt.Errorf("%w: order is submitted", ErrInvalidTransition)
	}
	if err := edit(&order); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderConfiguring
	order.Confirmed = false
	return s.persist(ctx, order)
}

func (s *OrderService) transition(ctx context.Context, orderID string, next domain.OrderStatus) (domain.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.Status.CanTransition(next) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}
	order.Status = next
	return s.persist(ctx, order)
}

func (s *OrderService) persist(ctx context.Context, order domain.Order) (domain.Order, error) {
	order.UpdatedAt = s.now().UTC()
	if err := s.orders.Update(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("update order %s: %w", order.ID, err)
	}
	return order, nil
}
