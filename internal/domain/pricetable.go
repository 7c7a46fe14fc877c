package domain

// PriceKey is the stable logical name of one priceable unit. The keys mirror
// the rows of the shop's pricing board; calculators only ever address entries
// through these names.
type PriceKey string

const (
	KeyAcrylGlass          PriceKey = "acryl_glass"
	KeyUVPrint             PriceKey = "uv_print"
	KeyLED                 PriceKey = "led"
	KeyElements            PriceKey = "elements"
	KeyAssembly            PriceKey = "assembly"
	KeyPackaging           PriceKey = "packaging"
	KeyController          PriceKey = "controller"
	KeyControllerHighPower PriceKey = "controller_high_power"
	KeyHourlyWage          PriceKey = "hourly_wage"
	KeyTimePerM2           PriceKey = "time_per_m2"
	KeyTimePerElement      PriceKey = "time_per_element"
	KeyWaterproofing       PriceKey = "waterproofing"
	KeyMultiPart           PriceKey = "multi_part"
	KeyAdministrativeCosts PriceKey = "administrative_costs"
	KeyExpressProduction   PriceKey = "express_production"
	KeyDistanceRate        PriceKey = "distance_rate"
	KeyHangingSystem       PriceKey = "hanging_system"

	KeyPowerUSB15W PriceKey = "power_usb_15w"
	KeyPower30W    PriceKey = "power_30w"
	KeyPower70W    PriceKey = "power_70w"
	KeyPower120W   PriceKey = "power_120w"
	KeyPower200W   PriceKey = "power_200w"
	KeyPower250W   PriceKey = "power_250w"
	KeyPower300W   PriceKey = "power_300w"
	KeyPower400W   PriceKey = "power_400w"
	KeyPower1000W  PriceKey = "power_1000w"

	KeyDHLKlein20     PriceKey = "dhl_klein_20cm"
	KeyDHLMittel60    PriceKey = "dhl_mittel_60cm"
	KeyDHLGross100    PriceKey = "dhl_gross_100cm"
	KeySpedition120   PriceKey = "spedition_120cm"
	KeyGuttransport24 PriceKey = "gutertransport_240cm"
)

// EntryKind discriminates the tagged price entry variants.
type EntryKind string

const (
	// EntryUnitPrice is a flat currency amount per unit (m², meter, piece,
	// kilometer, or a one-off fee).
	EntryUnitPrice EntryKind = "unit_price"
	// EntryPercentage is a surcharge rate applied to a computed base.
	EntryPercentage EntryKind = "percentage"
	// EntryLaborFactor is a labor-time factor in hours per unit.
	EntryLaborFactor EntryKind = "labor_factor"
)

// PriceEntry is one decoded row of the price table. Exactly one of Amount,
// Rate, or Hours is meaningful depending on Kind; the decision is made once
// at ingestion time, never re-interpreted at read time.
type PriceEntry struct {
	Kind   EntryKind
	Amount float64 // EUR per Unit
	Rate   float64 // fraction, 0.15 == 15%
	Hours  float64 // hours per Unit
	Unit   string
}

// UnitPrice constructs a flat unit price entry.
func UnitPrice(amount float64, unit string) PriceEntry {
	return PriceEntry{Kind: EntryUnitPrice, Amount: amount, Unit: unit}
}

// Percentage constructs a surcharge rate entry.
func Percentage(rate float64) PriceEntry {
	return PriceEntry{Kind: EntryPercentage, Rate: rate, Unit: "%"}
}

// LaborFactor constructs a labor-time entry.
func LaborFactor(hours float64, unit string) PriceEntry {
	return PriceEntry{Kind: EntryLaborFactor, Hours: hours, Unit: unit}
}

// PercentageKeys enumerates the keys that decode as surcharge rates.
var PercentageKeys = map[PriceKey]bool{
	KeyWaterproofing:       true,
	KeyMultiPart:           true,
	KeyAdministrativeCosts: true,
	KeyExpressProduction:   true,
}

// LaborKeys enumerates the keys that decode as labor-time factors.
var LaborKeys = map[PriceKey]bool{
	KeyTimePerM2:      true,
	KeyTimePerElement: true,
}

// FallbackEntries seeds the table at startup and backs every read accessor
// when a key is absent. The values are the shop's last published list prices;
// every key used anywhere in the pricing code appears here, so calculations
// stay deterministic with the price board unreachable.
func FallbackEntries() map[PriceKey]PriceEntry {
	return map[PriceKey]PriceEntry{
		KeyAcrylGlass:          UnitPrice(89.00, "m²"),
		KeyUVPrint:             UnitPrice(45.00, "m²"),
		KeyLED:                 UnitPrice(12.50, "m"),
		KeyElements:            UnitPrice(7.50, "Stück"),
		KeyAssembly:            UnitPrice(29.00, "m²"),
		KeyPackaging:           UnitPrice(11.00, "m²"),
		KeyController:          UnitPrice(24.90, "Stück"),
		KeyControllerHighPower: UnitPrice(44.90, "Stück"),
		KeyHourlyWage:          UnitPrice(45.00, "h"),
		KeyTimePerM2:           LaborFactor(1.5, "h/m²"),
		KeyTimePerElement:      LaborFactor(0.25, "h/Stück"),
		KeyWaterproofing:       Percentage(0.25),
		KeyMultiPart:           Percentage(0.15),
		KeyAdministrativeCosts: Percentage(0.10),
		KeyExpressProduction:   Percentage(0.25),
		KeyDistanceRate:        UnitPrice(1.20, "km"),
		KeyHangingSystem:       UnitPrice(34.90, "Stück"),

		KeyPowerUSB15W: UnitPrice(11.90, "Stück"),
		KeyPower30W:    UnitPrice(17.90, "Stück"),
		KeyPower70W:    UnitPrice(28.90, "Stück"),
		KeyPower120W:   UnitPrice(38.90, "Stück"),
		KeyPower200W:   UnitPrice(58.90, "Stück"),
		KeyPower250W:   UnitPrice(68.90, "Stück"),
		KeyPower300W:   UnitPrice(78.90, "Stück"),
		KeyPower400W:   UnitPrice(98.90, "Stück"),
		KeyPower1000W:  UnitPrice(148.90, "Stück"),

		KeyDHLKlein20:     UnitPrice(6.99, "Paket"),
		KeyDHLMittel60:    UnitPrice(12.99, "Paket"),
		KeyDHLGross100:    UnitPrice(19.99, "Paket"),
		KeySpedition120:   UnitPrice(59.00, "Sendung"),
		KeyGuttransport24: UnitPrice(249.00, "Sendung"),
	}
}

// PriceTable is an immutable snapshot of decoded price entries. Refreshes
// build a new table and swap it in whole; readers never observe a partial
// merge.
type PriceTable struct {
	entries map[PriceKey]PriceEntry
}

// NewPriceTable builds a table over the given entries. The map is copied so
// later caller mutations cannot leak into the snapshot.
func NewPriceTable(entries map[PriceKey]PriceEntry) PriceTable {
	copied := make(map[PriceKey]PriceEntry, len(entries))
	for key, entry := range entries {
		copied[key] = entry
	}
	return PriceTable{entries: copied}
}

// FallbackPriceTable returns a table seeded purely from the hardcoded
// fallback prices.
func FallbackPriceTable() PriceTable {
	return PriceTable{entries: FallbackEntries()}
}

// Merge returns a new table with the given entries layered over the current
// ones. Keys absent from overrides keep their previous value.
func (t PriceTable) Merge(overrides map[PriceKey]PriceEntry) PriceTable {
	merged := make(map[PriceKey]PriceEntry, len(t.entries)+len(overrides))
	for key, entry := range t.entries {
		merged[key] = entry
	}
	for key, entry := range overrides {
		merged[key] = entry
	}
	return PriceTable{entries: merged}
}

// Len reports the number of entries in the snapshot.
func (t PriceTable) Len() int { return len(t.entries) }

// Entry returns the raw entry for a key when present.
func (t PriceTable) Entry(key PriceKey) (PriceEntry, bool) {
	entry, ok := t.entries[key]
	return entry, ok
}

// UnitPrice returns the flat amount for the key, or the fallback value when
// the key is absent or not a unit price.
func (t PriceTable) UnitPrice(key PriceKey) float64 {
	if entry, ok := t.entries[key]; ok && entry.Kind == EntryUnitPrice {
		return entry.Amount
	}
	if entry, ok := FallbackEntries()[key]; ok && entry.Kind == EntryUnitPrice {
		return entry.Amount
	}
	return 0
}

// Rate returns the surcharge fraction for the key, falling back likewise.
func (t PriceTable) Rate(key PriceKey) float64 {
	if entry, ok := t.entries[key]; ok && entry.Kind == EntryPercentage {
		return entry.Rate
	}
	if entry, ok := FallbackEntries()[key]; ok && entry.Kind == EntryPercentage {
		return entry.Rate
	}
	return 0
}

// Hours returns the labor-time factor for the key, falling back likewise.
func (t PriceTable) Hours(key PriceKey) float64 {
	if entry, ok := t.entries[key]; ok && entry.Kind == EntryLaborFactor {
		return entry.Hours
	}
	if entry, ok := FallbackEntries()[key]; ok && entry.Kind == EntryLaborFactor {
		return entry.Hours
	}
	return 0
}
