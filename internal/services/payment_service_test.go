package services

import (
	"context"
	"errors"
	"testing"

	"github.com/lichtwerk/api/internal/payments"
)

func TestRecordWebhookEventReconciles(t *testing.T) {
	psp := &fakePSP{details: payments.PaymentDetails{
		Provider:    "stripe",
		IntentID:    "pi_1",
		Status:      payments.StatusSucceeded,
		AmountCents: 61331,
		Currency:    "EUR",
	}}
	var events []string
	svc, err := NewPaymentService(PaymentServiceDeps{
		PSP: psp,
		Logger: func(_ context.Context, event string, _ map[string]any) {
			events = append(events, event)
		},
	})
	if err != nil {
		t.Fatalf("NewPaymentService: %v", err)
	}

	if err := svc.RecordWebhookEvent(context.Background(), payments.WebhookEvent{
		Type:     "payment_intent.succeeded",
		IntentID: "pi_1",
	}); err != nil {
		t.Fatalf("RecordWebhookEvent: %v", err)
	}

	if len(psp.lookups) != 1 || psp.lookups[0] != "pi_1" {
		t.Fatalf("expected one lookup of pi_1, got %v", psp.lookups)
	}
	if len(events) != 1 || events[0] != "payments.webhook.reconciled" {
		t.Fatalf("unexpected events %v", events)
	}
}

func TestRecordWebhookEventWithoutIntent(t *testing.T) {
	psp := &fakePSP{}
	svc, err := NewPaymentService(PaymentServiceDeps{PSP: psp})
	if err != nil {
		t.Fatalf("NewPaymentService: %v", err)
	}

	if err := svc.RecordWebhookEvent(context.Background(), payments.WebhookEvent{Type: "charge.updated"}); err != nil {
		t.Fatalf("RecordWebhookEvent: %v", err)
	}
	if len(psp.lookups) != 0 {
		t.Fatal("lookup must not run without an intent reference")
	}
}

func TestRecordWebhookEventLookupFailure(t *testing.T) {
	lookupErr := errors.New("stripe down")
	svc, err := NewPaymentService(PaymentServiceDeps{PSP: &fakePSP{lookupErr: lookupErr}})
	if err != nil {
		t.Fatalf("NewPaymentService: %v", err)
	}

	if err := svc.RecordWebhookEvent(context.Background(), payments.WebhookEvent{
		Type:     "payment_intent.succeeded",
		IntentID: "pi_2",
	}); !errors.Is(err, lookupErr) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
}
