package domain

import (
	"regexp"
	"time"
)

// Design is an immutable catalog template for a sign. Reference dimensions
// are in centimeters, the LED length in meters. Designs are shared read-only
// across orders; sign configurations scale from them but never mutate them.
type Design struct {
	ID           string
	Name         string
	RefWidthCm   float64
	RefHeightCm  float64
	RefLEDLength float64
	ElementCount int
	AssetPath    string
	UpdatedAt    time.Time
}

// Valid reports whether the design can be priced. The catalog rejects
// designs with non-positive reference dimensions at load time, which is what
// keeps the scaling functions free of division-by-zero guards downstream.
func (d Design) Valid() bool {
	return d.RefWidthCm > 0 && d.RefHeightCm > 0 && d.RefLEDLength > 0
}

// SignConfiguration is one customer-configured line in an order. It
// references a Design and carries its own size and fabrication flags.
// Several configurations may reference the same design. Height is always
// derived from width through the design's reference ratio, never set
// directly.
type SignConfiguration struct {
	ID       string
	DesignID string
	WidthCm  float64
	HeightCm float64

	Waterproof    bool
	MultiPart     bool
	UVPrint       bool
	HangingSystem bool
	Express       bool

	// Enabled excludes the line from totals without deleting it.
	Enabled bool
}

// ShippingMethod enumerates the delivery options a quote can resolve to.
type ShippingMethod string

const (
	ShippingPickup       ShippingMethod = "pickup"
	ShippingParcelSmall  ShippingMethod = "parcel_small"
	ShippingParcelMedium ShippingMethod = "parcel_medium"
	ShippingParcelLarge  ShippingMethod = "parcel_large"
	ShippingFreight      ShippingMethod = "freight"
	ShippingPersonal     ShippingMethod = "personal_delivery"
	ShippingPalletized   ShippingMethod = "palletized_freight"
	ShippingWithInstall  ShippingMethod = "installation"
	ShippingNone         ShippingMethod = ""
)

// ShippingSelection captures the customer's explicit delivery choice.
// Selecting installation clears any carrier selection; the two are mutually
// exclusive because installation implies on-site delivery.
type ShippingSelection struct {
	Pickup       bool
	Installation bool
}

// DistanceResult is the resolved road distance from the shop's origin to a
// destination postal code. Km is at least 1 for any non-identical code; the
// resolver never fails, it only degrades in fidelity.
type DistanceResult struct {
	Km    int
	Place string
}

// OrderStatus tracks order progression. Submitted is terminal; abandoned
// drafts are simply discarded, there is no explicit cancel state.
type OrderStatus string

const (
	OrderConfiguring OrderStatus = "configuring"
	OrderReviewing   OrderStatus = "reviewing"
	OrderConfirmed   OrderStatus = "confirmed"
	OrderSubmitted   OrderStatus = "submitted"
)

// CanTransition reports whether the status may move to next. The machine is
// strictly forward except that Reviewing and Confirmed may fall back to
// Configuring when the customer edits the cart again.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch s {
	case OrderConfiguring:
		return next == OrderReviewing
	case OrderReviewing:
		return next == OrderConfirmed || next == OrderConfiguring
	case OrderConfirmed:
		return next == OrderSubmitted || next == OrderConfiguring
	default:
		return false
	}
}

// Order is the customer's full configuration: sign lines, destination, and
// delivery choices. Totals are always derived, never stored on the order.
type Order struct {
	ID         string
	Status     OrderStatus
	Signs      []SignConfiguration
	PostalCode string
	Shipping   ShippingSelection
	// Confirmed is the explicit acknowledgment required before submission.
	Confirmed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EnabledSigns returns the lines included in totals.
func (o Order) EnabledSigns() []SignConfiguration {
	enabled := make([]SignConfiguration, 0, len(o.Signs))
	for _, sign := range o.Signs {
		if sign.Enabled {
			enabled = append(enabled, sign)
		}
	}
	return enabled
}

// Fabrication limits, in centimeters.
const (
	MinSignWidthCm = 20.0
	MaxSignWidthCm = 600.0
	// MaxSinglePartHeightCm is the tallest sign that ships in one piece.
	MaxSinglePartHeightCm = 200.0
	// MultiPartWidthThresholdCm forces the multi-part flag above this width.
	MultiPartWidthThresholdCm = 240.0
)

var postalCodePattern = regexp.MustCompile(`^[0-9]{5}$`)

// ValidPostalCode reports whether the string is a well-formed five-digit
// German postal code.
func ValidPostalCode(code string) bool {
	return postalCodePattern.MatchString(code)
}

// ValidationMessage is one user-facing configuration problem. Validation
// never blocks pricing, only submission.
type ValidationMessage struct {
	Field   string
	SignID  string
	Message string
}

// ValidateSign collects configuration problems for a single line.
func ValidateSign(sign SignConfiguration) []ValidationMessage {
	var messages []ValidationMessage
	if sign.WidthCm < MinSignWidthCm {
		messages = append(messages, ValidationMessage{
			Field:   "width",
			SignID:  sign.ID,
			Message: "width is below the minimum of 20 cm",
		})
	}
	if sign.WidthCm > MaxSignWidthCm {
		messages = append(messages, ValidationMessage{
			Field:   "width",
			SignID:  sign.ID,
			Message: "width exceeds the maximum of 600 cm",
		})
	}
	if sign.HeightCm > MaxSinglePartHeightCm && !sign.MultiPart {
		messages = append(messages, ValidationMessage{
			Field:   "multiPart",
			SignID:  sign.ID,
			Message: "signs taller than 200 cm must be fabricated in multiple parts",
		})
	}
	if sign.WidthCm > MultiPartWidthThresholdCm && !sign.MultiPart {
		messages = append(messages, ValidationMessage{
			Field:   "multiPart",
			SignID:  sign.ID,
			Message: "signs wider than 240 cm must be fabricated in multiple parts",
		})
	}
	return messages
}

// SyncState describes the price-board connection for the UI status
// indicator. Failures never surface as errors to pricing callers; they are
// recorded here instead.
type SyncState struct {
	Connected  bool
	LastError  string
	LastSyncAt time.Time
	EntryCount int
}

// Health statuses shared by the readiness endpoint.
const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
	HealthStatusError    = "error"
)

// SystemHealthCheck is the outcome of probing one dependency.
type SystemHealthCheck struct {
	Status    string
	Detail    string
	Error     string
	Latency   time.Duration
	CheckedAt time.Time
}

// SystemHealthReport aggregates dependency checks with build metadata.
type SystemHealthReport struct {
	Status      string
	Version     string
	CommitSHA   string
	Environment string
	Uptime      time.Duration
	Checks      map[string]SystemHealthCheck
	GeneratedAt time.Time
}
