package payments

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v78/webhook"
)

// ErrWebhookSignature rejects notifications whose Stripe-Signature header
// does not verify against the configured endpoint secret.
var ErrWebhookSignature = errors.New("payments: webhook signature verification failed")

// WebhookEvent is a verified PSP notification, normalised to the payment
// intent reference the reconciliation path works with.
type WebhookEvent struct {
	Type     string
	IntentID string
}

// ParseStripeWebhook verifies payload against the endpoint secret and
// extracts the payment intent reference. Checkout session events carry the
// intent in the payment_intent field; intent events carry it as the object
// ID itself.
func ParseStripeWebhook(payload []byte, sigHeader, secret string) (WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, secret)
	if err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: %v", ErrWebhookSignature, err)
	}

	var object struct {
		ID            string `json:"id"`
		Object        string `json:"object"`
		PaymentIntent string `json:"payment_intent"`
	}
	if event.Data != nil && len(event.Data.Raw) > 0 {
		if err := json.Unmarshal(event.Data.Raw, &object); err != nil {
			return WebhookEvent{}, fmt.Errorf("stripe: decode webhook object: %w", err)
		}
	}

	intentID := object.PaymentIntent
	if intentID == "" && object.Object == "payment_intent" {
		intentID = object.ID
	}
	return WebhookEvent{Type: string(event.Type), IntentID: intentID}, nil
}
