package domain

// All monetary amounts below are euro cents.

// SignPriceBreakdown captures the priced components of a single sign line.
// Surcharges are each computed on Base and summed; they never compound on
// one another.
type SignPriceBreakdown struct {
	SignID string

	AreaM2    float64
	LEDLength float64
	PowerW    int

	Acrylic     int64
	UVPrint     int64
	LED         int64
	Elements    int64
	Packaging   int64
	Controller  int64
	PowerSupply int64
	Labor       int64
	Hanging     int64

	Base int64

	Waterproof     int64
	MultiPart      int64
	Express        int64
	Administrative int64

	Total int64
}

// ShippingQuote is the resolved delivery option and cost for an order.
type ShippingQuote struct {
	Method ShippingMethod
	Cost   int64
	// RequiresPostalCode is set when the order needs a destination before a
	// cost can be quoted (oversized signs without a postal code).
	RequiresPostalCode bool
	DistanceKm         int
}

// InstallationQuote is the on-site assembly cost for an order.
type InstallationQuote struct {
	Cost       int64
	AreaM2     float64
	DistanceKm int
	Place      string
}

// OrderQuote is the full derived total for an order configuration.
// Invariants: Subtotal = LineTotal + Shipping.Cost + Installation.Cost,
// Total = Subtotal + Tax.
type OrderQuote struct {
	Lines        []SignPriceBreakdown
	LineTotal    int64
	Shipping     ShippingQuote
	Installation InstallationQuote
	Subtotal     int64
	Tax          int64
	Total        int64
	Validation   []ValidationMessage
}

// VATRate is the fixed German value-added tax applied to every order.
const VATRate = 0.19
