package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lichtwerk/api/internal/payments"
)

// PaymentService reconciles verified PSP webhook notifications against the
// PSP's own record of the payment. Orders are frozen at submission, so the
// outcome is logged for the back office rather than written back.
type PaymentService struct {
	psp    payments.Provider
	logger EventLogger
}

// PaymentServiceDeps bundles the dependencies for NewPaymentService.
type PaymentServiceDeps struct {
	PSP    payments.Provider
	Logger EventLogger
}

// NewPaymentService validates the dependencies and returns the service.
func NewPaymentService(deps PaymentServiceDeps) (*PaymentService, error) {
	if deps.PSP == nil {
		return nil, errors.New("payment service: psp provider is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = noopEventLogger
	}
	return &PaymentService{psp: deps.PSP, logger: logger}, nil
}

// RecordWebhookEvent handles one verified notification. Events without a
// payment intent reference are logged and dropped; the rest are confirmed
// against the PSP so a spoofed or stale notification never stands alone.
func (s *PaymentService) RecordWebhookEvent(ctx context.Context, event payments.WebhookEvent) error {
	if s == nil || s.psp == nil {
		return errors.New("payment service not initialised")
	}
	if event.IntentID == "" {
		s.logger(ctx, "payments.webhook.ignored", map[string]any{"type": event.Type})
		return nil
	}

	details, err := s.psp.LookupPayment(ctx, event.IntentID)
	if err != nil {
		return fmt.Errorf("reconcile payment %s: %w", event.IntentID, err)
	}

	s.logger(ctx, "payments.webhook.reconciled", map[string]any{
		"type":        event.Type,
		"intentId":    details.IntentID,
		"status":      string(details.Status),
		"amountCents": details.AmountCents,
		"currency":    details.Currency,
	})
	return nil
}
