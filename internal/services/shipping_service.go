package services

import (
	"context"
	"errors"

	"github.com/lichtwerk/api/internal/domain"
)

// Shipping tier boundaries by longest side, in centimeters.
const (
	parcelSmallMaxCm  = 60.0
	parcelMediumMaxCm = 100.0
	parcelLargeMaxCm  = 120.0
	freightMaxCm      = 239.0
	// personalDeliveryMaxKm bounds local delivery for oversized signs;
	// beyond it the sign goes out as palletized freight.
	personalDeliveryMaxKm = 300
)

// ShippingCalculator resolves the delivery tier and cost for an order and
// the on-site installation cost. Both computations are pure over the price
// table snapshot; the distance resolver is the only collaborator that
// touches the network, and it never fails.
type ShippingCalculator struct {
	prices   PriceSource
	distance DistanceResolver
	logger   EventLogger
}

// ShippingCalculatorDeps bundles the dependencies for NewShippingCalculator.
type ShippingCalculatorDeps struct {
	Prices   PriceSource
	Distance DistanceResolver
	Logger   EventLogger
}

// NewShippingCalculator validates the dependencies and returns the
// calculator.
func NewShippingCalculator(deps ShippingCalculatorDeps) (*ShippingCalculator, error) {
	if deps.Prices == nil {
		return nil, errors.New("shipping calculator: price source is required")
	}
	if deps.Distance == nil {
		return nil, errors.New("shipping calculator: distance resolver is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = noopEventLogger
	}
	return &ShippingCalculator{prices: deps.Prices, distance: deps.Distance, logger: logger}, nil
}

// ShippingQuote resolves the delivery option for the given enabled signs.
// Pickup and installation both force the cost to zero; installation wins
// over any carrier tier because it implies on-site delivery.
func (c *ShippingCalculator) ShippingQuote(ctx context.Context, order domain.Order) domain.ShippingQuote {
	signs := order.EnabledSigns()
	if len(signs) == 0 {
		return domain.ShippingQuote{Method: domain.ShippingNone}
	}
	if order.Shipping.Installation {
		return domain.ShippingQuote{Method: domain.ShippingWithInstall}
	}
	if order.Shipping.Pickup {
		return domain.ShippingQuote{Method: domain.ShippingPickup}
	}

	longest := 0.0
	for _, sign := range signs {
		if side := domain.LongestSide(sign.WidthCm, sign.HeightCm); side > longest {
			longest = side
		}
	}

	table := c.prices.Table()
	switch {
	case longest < parcelSmallMaxCm:
		return domain.ShippingQuote{Method: domain.ShippingParcelSmall, Cost: cents(table.UnitPrice(domain.KeyDHLKlein20))}
	case longest < parcelMediumMaxCm:
		return domain.ShippingQuote{Method: domain.ShippingParcelMedium, Cost: cents(table.UnitPrice(domain.KeyDHLMittel60))}
	case longest < parcelLargeMaxCm:
		return domain.ShippingQuote{Method: domain.ShippingParcelLarge, Cost: cents(table.UnitPrice(domain.KeyDHLGross100))}
	case longest < freightMaxCm:
		return domain.ShippingQuote{Method: domain.ShippingFreight, Cost: cents(table.UnitPrice(domain.KeySpedition120))}
	}

	// Oversized signs need a destination before a cost can be quoted.
	if !domain.ValidPostalCode(order.PostalCode) {
		return domain.ShippingQuote{RequiresPostalCode: true}
	}

	result := c.distance.Resolve(ctx, order.PostalCode)
	if result.Km > personalDeliveryMaxKm {
		return domain.ShippingQuote{
			Method:     domain.ShippingPalletized,
			Cost:       cents(table.UnitPrice(domain.KeyGuttransport24)),
			DistanceKm: result.Km,
		}
	}
	// Round trip with the shop's own vehicle.
	return domain.ShippingQuote{
		Method:     domain.ShippingPersonal,
		Cost:       cents(float64(result.Km) * table.UnitPrice(domain.KeyDistanceRate) * 2),
		DistanceKm: result.Km,
	}
}

// InstallationQuote computes the on-site assembly cost. Without a valid
// postal code or with installation deselected the cost is zero, never an
// error.
func (c *ShippingCalculator) InstallationQuote(ctx context.Context, order domain.Order) domain.InstallationQuote {
	if !order.Shipping.Installation {
		return domain.InstallationQuote{}
	}
	if !domain.ValidPostalCode(order.PostalCode) {
		return domain.InstallationQuote{}
	}

	totalArea := 0.0
	for _, sign := range order.EnabledSigns() {
		totalArea += domain.AreaSquareMeters(sign.WidthCm, sign.HeightCm)
	}
	if totalArea == 0 {
		return domain.InstallationQuote{}
	}

	table := c.prices.Table()
	result := c.distance.Resolve(ctx, order.PostalCode)
	cost := totalArea*table.UnitPrice(domain.KeyAssembly) + float64(result.Km)*table.UnitPrice(domain.KeyDistanceRate)

	quote := domain.InstallationQuote{
		Cost:       cents(cost),
		AreaM2:     totalArea,
		DistanceKm: result.Km,
		Place:      result.Place,
	}
	c.logger(ctx, "shipping.installation.calculated", map[string]any{
		"postalCode": order.PostalCode,
		"areaM2":     totalArea,
		"distanceKm": result.Km,
		"costCents":  quote.Cost,
	})
	return quote
}
