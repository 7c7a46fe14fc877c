package payments

import (
	"context"
	"time"
)

// Status enumerates the normalised payment states reported by the PSP.
type Status string

const (
	// StatusPending indicates the payment is awaiting customer action or PSP confirmation.
	StatusPending Status = "pending"
	// StatusSucceeded indicates the PSP reports the payment as successfully captured.
	StatusSucceeded Status = "succeeded"
	// StatusFailed indicates the PSP reports a failure and no further action is possible.
	StatusFailed Status = "failed"
)

// CheckoutLineItem describes one order line forwarded to the checkout page.
type CheckoutLineItem struct {
	Name        string
	Description string
	Quantity    int64
	AmountCents int64
}

// CheckoutRequest captures the payload required to open a checkout session
// for a submitted order. Amounts are euro cents.
type CheckoutRequest struct {
	OrderID        string
	TotalCents     int64
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
	Items          []CheckoutLineItem
}

// CheckoutSession is the PSP session handed back to the storefront.
type CheckoutSession struct {
	ID          string
	Provider    string
	RedirectURL string
	IntentID    string
	ExpiresAt   time.Time
}

// PaymentDetails normalises PSP specific fields for status lookups.
type PaymentDetails struct {
	Provider    string
	IntentID    string
	Status      Status
	AmountCents int64
	Currency    string
}

// Provider is the contract PSP adapters implement. Order submission opens a
// session; reconciliation looks the intent back up.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	LookupPayment(ctx context.Context, intentID string) (PaymentDetails, error)
}
