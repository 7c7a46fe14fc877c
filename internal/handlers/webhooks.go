package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lichtwerk/api/internal/payments"
	"github.com/lichtwerk/api/internal/platform/httpx"
)

const stripeSignatureHeader = "Stripe-Signature"

// PaymentEventRecorder handles verified PSP notifications.
type PaymentEventRecorder interface {
	RecordWebhookEvent(ctx context.Context, event payments.WebhookEvent) error
}

// WebhookHandlers verifies and dispatches inbound PSP notifications.
type WebhookHandlers struct {
	secret   string
	payments PaymentEventRecorder
}

// NewWebhookHandlers constructs the webhook endpoint handler.
func NewWebhookHandlers(secret string, recorder PaymentEventRecorder) *WebhookHandlers {
	return &WebhookHandlers{secret: secret, payments: recorder}
}

// Routes registers the webhook endpoints on the provided router.
func (h *WebhookHandlers) Routes(r chi.Router) {
	r.Post("/stripe", h.handleStripe)
}

func (h *WebhookHandlers) handleStripe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h == nil || h.payments == nil || h.secret == "" {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "webhook processing is not configured", http.StatusServiceUnavailable))
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "unable to read request body", http.StatusBadRequest))
		return
	}

	event, err := payments.ParseStripeWebhook(payload, r.Header.Get(stripeSignatureHeader), h.secret)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_signature", "webhook signature verification failed", http.StatusBadRequest))
		return
	}

	if err := h.payments.RecordWebhookEvent(ctx, event); err != nil {
		// Non-2xx makes Stripe redeliver the notification later.
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"received": "true"})
}
