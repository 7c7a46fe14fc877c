package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/lichtwerk/api/internal/domain"
)

// controllerHighPowerThresholdW is the wattage above which the high-power
// controller is required.
const controllerHighPowerThresholdW = 80

// powerSupplyTiers are the wattage ceilings of the available power supplies,
// ascending. A sign needing more than the last ceiling gets the 1000W tier.
var powerSupplyTiers = []struct {
	CeilingW int
	Key      domain.PriceKey
}{
	{15, domain.KeyPowerUSB15W},
	{30, domain.KeyPower30W},
	{70, domain.KeyPower70W},
	{120, domain.KeyPower120W},
	{200, domain.KeyPower200W},
	{250, domain.KeyPower250W},
	{300, domain.KeyPower300W},
	{400, domain.KeyPower400W},
}

// SignPricingEngine prices a single configured sign from the current price
// table snapshot. All computation is synchronous and pure over the snapshot;
// the engine never fails for business-data reasons.
type SignPricingEngine struct {
	prices PriceSource
	logger EventLogger
	now    func() time.Time
}

// SignPricingEngineDeps bundles the dependencies for NewSignPricingEngine.
type SignPricingEngineDeps struct {
	Prices PriceSource
	Logger EventLogger
	Now    func() time.Time
}

// NewSignPricingEngine validates the dependencies and returns the engine.
func NewSignPricingEngine(deps SignPricingEngineDeps) (*SignPricingEngine, error) {
	if deps.Prices == nil {
		return nil, errors.New("pricing engine: price source is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = noopEventLogger
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &SignPricingEngine{prices: deps.Prices, logger: logger, now: now}, nil
}

// cents converts a euro amount to rounded euro cents.
func cents(eur float64) int64 {
	return int64(math.Round(eur * 100))
}

// PriceSign computes the full breakdown for one sign line. Surcharges are
// each a fraction of the base and summed on top of it; they never compound
// on one another. The express surcharge is included whenever the line flag
// is set, which is what the live configurator preview needs; order
// aggregation reuses the same per-line result so express is billed exactly
// once.
func (e *SignPricingEngine) PriceSign(ctx context.Context, design domain.Design, sign domain.SignConfiguration) domain.SignPriceBreakdown {
	table := e.prices.Table()
	start := e.now()

	area := domain.AreaSquareMeters(sign.WidthCm, sign.HeightCm)
	ledLength := domain.ProportionalLEDLength(design.RefWidthCm, design.RefHeightCm, design.RefLEDLength, sign.WidthCm, sign.HeightCm)
	power := domain.PowerFromLEDLength(ledLength)

	breakdown := domain.SignPriceBreakdown{
		SignID:    sign.ID,
		AreaM2:    area,
		LEDLength: ledLength,
		PowerW:    power,
	}

	breakdown.Acrylic = cents(area * table.UnitPrice(domain.KeyAcrylGlass))
	if sign.UVPrint {
		breakdown.UVPrint = cents(area * table.UnitPrice(domain.KeyUVPrint))
	}
	breakdown.LED = cents(ledLength * table.UnitPrice(domain.KeyLED))
	breakdown.Elements = cents(float64(design.ElementCount) * table.UnitPrice(domain.KeyElements))
	breakdown.Packaging = cents(area * table.UnitPrice(domain.KeyPackaging))
	breakdown.Controller = cents(controllerPrice(table, power))
	breakdown.PowerSupply = cents(powerSupplyPrice(table, power))
	breakdown.Labor = cents(laborCost(table, area, design.ElementCount))
	if sign.HangingSystem {
		breakdown.Hanging = cents(table.UnitPrice(domain.KeyHangingSystem))
	}

	breakdown.Base = breakdown.Acrylic + breakdown.UVPrint + breakdown.LED +
		breakdown.Elements + breakdown.Packaging + breakdown.Controller +
		breakdown.PowerSupply + breakdown.Labor + breakdown.Hanging

	if sign.Waterproof {
		breakdown.Waterproof = surcharge(breakdown.Base, table.Rate(domain.KeyWaterproofing))
	}
	if sign.MultiPart {
		breakdown.MultiPart = surcharge(breakdown.Base, table.Rate(domain.KeyMultiPart))
	}
	if sign.Express {
		breakdown.Express = surcharge(breakdown.Base, table.Rate(domain.KeyExpressProduction))
	}
	// The administrative markup is deliberate pricing policy, applied to
	// every line without a customer-facing toggle.
	breakdown.Administrative = surcharge(breakdown.Base, table.Rate(domain.KeyAdministrativeCosts))

	breakdown.Total = breakdown.Base + breakdown.Waterproof + breakdown.MultiPart +
		breakdown.Express + breakdown.Administrative

	e.logger(ctx, "pricing.sign.calculated", map[string]any{
		"signId":     sign.ID,
		"designId":   design.ID,
		"widthCm":    sign.WidthCm,
		"heightCm":   sign.HeightCm,
		"areaM2":     area,
		"ledLengthM": ledLength,
		"powerW":     power,
		"baseCents":  breakdown.Base,
		"totalCents": breakdown.Total,
		"elapsedMs":  e.now().Sub(start).Milliseconds(),
	})

	return breakdown
}

func surcharge(base int64, rate float64) int64 {
	return int64(math.Round(float64(base) * rate))
}

func controllerPrice(table domain.PriceTable, powerW int) float64 {
	if powerW <= controllerHighPowerThresholdW {
		return table.UnitPrice(domain.KeyController)
	}
	return table.UnitPrice(domain.KeyControllerHighPower)
}

func powerSupplyPrice(table domain.PriceTable, powerW int) float64 {
	for _, tier := range powerSupplyTiers {
		if powerW <= tier.CeilingW {
			return table.UnitPrice(tier.Key)
		}
	}
	return table.UnitPrice(domain.KeyPower1000W)
}

func laborCost(table domain.PriceTable, areaM2 float64, elementCount int) float64 {
	hours := areaM2*table.Hours(domain.KeyTimePerM2) + float64(elementCount)*table.Hours(domain.KeyTimePerElement)
	return hours * table.UnitPrice(domain.KeyHourlyWage)
}
