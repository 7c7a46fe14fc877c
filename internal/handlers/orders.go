package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lichtwerk/api/internal/domain"
	"github.com/lichtwerk/api/internal/platform/httpx"
	"github.com/lichtwerk/api/internal/platform/pagination"
	"github.com/lichtwerk/api/internal/repositories"
	"github.com/lichtwerk/api/internal/services"
)

const (
	defaultOrderPageSize = 20
	maxOrderPageSize     = 100
)

// OrderManager drives the order configuration and submission flow.
type OrderManager interface {
	CreateOrder(ctx context.Context) (domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	ListOrders(ctx context.Context, params pagination.Params) (repositories.OrderPage, error)
	AddSign(ctx context.Context, orderID string, input services.SignInput) (domain.Order, error)
	UpdateSign(ctx context.Context, orderID, signID string, input services.SignInput) (domain.Order, error)
	RemoveSign(ctx context.Context, orderID, signID string) (domain.Order, error)
	SetSignEnabled(ctx context.Context, orderID, signID string, enabled bool) (domain.Order, error)
	SetPostalCode(ctx context.Context, orderID, postalCode string) (domain.Order, error)
	SetShipping(ctx context.Context, orderID string, selection domain.ShippingSelection) (domain.Order, error)
	Review(ctx context.Context, orderID string) (domain.Order, error)
	Confirm(ctx context.Context, orderID string, acknowledged bool) (domain.Order, error)
	Submit(ctx context.Context, orderID string) (services.SubmitResult, error)
}

// OrderHandlers exposes the order lifecycle endpoints.
type OrderHandlers struct {
	orders OrderManager
	quotes OrderQuoter
}

// NewOrderHandlers constructs a new OrderHandlers instance.
func NewOrderHandlers(orders OrderManager, quotes OrderQuoter) *OrderHandlers {
	return &OrderHandlers{orders: orders, quotes: quotes}
}

// Routes registers the /orders endpoints.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.createOrder)
	r.Get("/", h.listOrders)
	r.Get("/{orderID}", h.getOrder)
	r.Get("/{orderID}/quote", h.quoteOrder)
	r.Post("/{orderID}/signs", h.addSign)
	r.Put("/{orderID}/signs/{signID}", h.updateSign)
	r.Delete("/{orderID}/signs/{signID}", h.removeSign)
	r.Patch("/{orderID}/signs/{signID}/enabled", h.setSignEnabled)
	r.Put("/{orderID}/postal-code", h.setPostalCode)
	r.Put("/{orderID}/shipping", h.setShipping)
	r.Post("/{orderID}/review", h.review)
	r.Post("/{orderID}/confirm", h.confirm)
	r.Post("/{orderID}/submit", h.submit)
}

func (h *OrderHandlers) serviceReady(ctx context.Context, w http.ResponseWriter) bool {
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "order service unavailable", http.StatusServiceUnavailable))
		return false
	}
	return true
}

func orderIDParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "orderID"))
}

func signIDParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "signID"))
}

func (h *OrderHandlers) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.serviceReady(ctx, w) {
		return
	}

	order, err := h.orders.CreateOrder(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, newOrderResponse(order))
}

type orderListResponse struct {
	Orders        []orderResponse `json:"orders"`
	NextPageToken string          `json:"nextPageToken,omitempty"`
}

func (h *OrderHandlers) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.serviceReady(ctx, w) {
		return
	}

	params, err := pagination.FromRequest(r, pagination.Options{
		DefaultPageSize: defaultOrderPageSize,
		MaxPageSize:     maxOrderPageSize,
	})
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	page, err := h.orders.ListOrders(ctx, params)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	payload := orderListResponse{Orders: make([]orderResponse, 0, len(page.Orders))}
	for _, order := range page.Orders {
		payload.Orders = append(payload.Orders, newOrderResponse(order))
	}
	payload.NextPageToken = page.NextPageToken
	httpx.WriteJSON(w, http.StatusOK, payload)
}

func (h *OrderHandlers) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.serviceReady(ctx, w) {
		return
	}

	order, err := h.orders.GetOrder(ctx, orderIDParam(r))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newOrderResponse(order))
}

func (h *OrderHandlers) quoteOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.serviceReady(ctx, w) {
		return
	}
	if h.quotes == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "quote service unavailable", http.StatusServiceUnavailable))
		return
	}

	order, err := h.orders.GetOrder(ctx, orderIDParam(r))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	quote, err := h.quotes.QuoteOrder(ctx, order)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newQuoteResponse(quote))
}

type signRequest struct {
	DesignID      string  `json:"designId"`
	WidthCm       float64 `json:"widthCm"`
	Waterproof    bool    `json:"waterproof"`
	MultiPart     bool    `json:"multiPart"`
	UVPrint       bool    `json:"uvPrint"`
	HangingSystem bool    `json:"hangingSystem"`
	Express       bool    `json:"express"`
}

func (req signRequest) toInput() services.SignInput {
	return services.SignInput{
		DesignID:      strings.TrimSpace(req.DesignID),
		WidthCm:       req.WidthCm,
		Waterproof:    req.Waterproof,
		MultiPart:     req.MultiPart,
		UVPrint:       req.UVPrint,
		HangingSystem: req.HangingSystem,
		Express:       req.Express,
	}
}

func (h *OrderHandlers) addSign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.serviceReady(ctx, w) {
		return
	}

	var req signRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid request body", http.StatusBadRequest))
		return
	}

	order, err := h.orders.AddSign(ctx, orderIDParam(r), req.toInput())
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, newOrderResponse(order))
}

func (h *OrderHandlers) updateSign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.serviceReady(ctx, w) {
		return
	}

	var req signRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid request body", http.StatusBadRequest))
		return
	}

	order, err := h.orders.UpdateSign(ctx, orderIDParam(r), signIDParam(r), req.toInput())
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newOrderResponse(order))
}

func (h *OrderHandlers) removeSign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.serviceReady(ctx, w) {
		return
	}

	order, err := h.orders.RemoveSign(ctx, orderIDParam(r), signIDParam(r))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newOrderResponse(order))
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

func (h *OrderHandlers) setSignEnabled(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.serviceReady(ctx, w) {
		return
	}

	var req enabledRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Enabled == nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "enabled flag is required", http.StatusBadRequest))
		return
	}

	order, err := h.orders.SetSignEnabled(ctx, orderIDParam(r), signIDParam(r), *req.Enabled)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newOrderResponse(order))
}

type postalCodeRequest struct {
	PostalCode string `json:"postalCode"`
}

func (h *OrderHandlers) setPostalCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.serviceReady(ctx, w) {
		return
	}

	var req postalCodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid request body", http.StatusBadRequest))
		return
	}

	order, err := h.orders.SetPostalCode(ctx, orderIDParam(r), strings.TrimSpace(req.PostalCode))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newOrderResponse(order))
}

type shippingRequest struct {
	Pickup       bool `json:"pickup"`
	Installation bool `json:"installation"`
}

func (h *OrderHandlers) setShipping(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.serviceReady(ctx, w) {
		return
	}

	var req shippingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid request body", http.StatusBadRequest))
		return
	}

	order, err := h.orders.SetShipping(ctx, orderIDParam(r), domain.ShippingSelection{
		Pickup:       req.Pickup,
		Installation: req.Installation,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newOrderResponse(order))
}

func (h *OrderHandlers) review(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.serviceReady(ctx, w) {
		return
	}

	order, err := h.orders.Review(ctx, orderIDParam(r))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newOrderResponse(order))
}

type confirmRequest struct {
	Acknowledged bool `json:"acknowledged"`
}

func (h *OrderHandlers) confirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.serviceReady(ctx, w) {
		return
	}

	var req confirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid request body", http.StatusBadRequest))
		return
	}

	order, err := h.orders.Confirm(ctx, orderIDParam(r), req.Acknowledged)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newOrderResponse(order))
}

type checkoutResponse struct {
	SessionID   string    `json:"sessionId,omitempty"`
	Provider    string    `json:"provider,omitempty"`
	RedirectURL string    `json:"redirectUrl,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type submitResponse struct {
	Order    orderResponse    `json:"order"`
	Quote    quoteResponse    `json:"quote"`
	Checkout checkoutResponse `json:"checkout"`
}

func (h *OrderHandlers) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.serviceReady(ctx, w) {
		return
	}

	result, err := h.orders.Submit(ctx, orderIDParam(r))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, submitResponse{
		Order: newOrderResponse(result.Order),
		Quote: newQuoteResponse(result.Quote),
		Checkout: checkoutResponse{
			SessionID:   result.Checkout.ID,
			Provider:    result.Checkout.Provider,
			RedirectURL: result.Checkout.RedirectURL,
			ExpiresAt:   result.Checkout.ExpiresAt,
		},
	})
}
