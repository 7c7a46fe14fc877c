package priceboard

import (
	"strings"

	"github.com/lichtwerk/api/internal/domain"
)

// Column keys of the pricing board. The board uses German column titles;
// these are the API-level keys behind them.
const (
	colUnit      = "einheit"
	colPrice     = "preis"
	colPercent   = "prozent"
	colHours     = "stunden"
	colLookupID  = "zahlen"
	colWidth     = "breite"
	colHeight    = "hoehe"
	colLEDLength = "led_laenge"
	colElements  = "elemente"
	colAsset     = "datei"
)

// rowIDToKey maps board item IDs to logical price keys. The ID table is
// authoritative; renaming a row on the board does not break pricing as long
// as the item keeps its ID.
var rowIDToKey = map[string]domain.PriceKey{
	"1392077242": domain.KeyAcrylGlass,
	"1392077251": domain.KeyUVPrint,
	"1392077263": domain.KeyLED,
	"1392077274": domain.KeyElements,
	"1392077286": domain.KeyAssembly,
	"1392077295": domain.KeyPackaging,
	"1392077308": domain.KeyController,
	"1392077319": domain.KeyControllerHighPower,
	"1392077331": domain.KeyHourlyWage,
	"1392077342": domain.KeyTimePerM2,
	"1392077353": domain.KeyTimePerElement,
	"1392077367": domain.KeyWaterproofing,
	"1392077378": domain.KeyMultiPart,
	"1392077389": domain.KeyAdministrativeCosts,
	"1392077401": domain.KeyExpressProduction,
	"1392077412": domain.KeyDistanceRate,
	"1392077424": domain.KeyHangingSystem,

	"1392077501": domain.KeyPowerUSB15W,
	"1392077512": domain.KeyPower30W,
	"1392077523": domain.KeyPower70W,
	"1392077534": domain.KeyPower120W,
	"1392077545": domain.KeyPower200W,
	"1392077556": domain.KeyPower250W,
	"1392077567": domain.KeyPower300W,
	"1392077578": domain.KeyPower400W,
	"1392077589": domain.KeyPower1000W,

	"1392077601": domain.KeyDHLKlein20,
	"1392077612": domain.KeyDHLMittel60,
	"1392077623": domain.KeyDHLGross100,
	"1392077634": domain.KeySpedition120,
	"1392077645": domain.KeyGuttransport24,
}

// rowNameToKey maps normalized display names to logical price keys. Used
// only when the item ID is unknown, so a re-created row still resolves.
var rowNameToKey = map[string]domain.PriceKey{
	"acrylglas":               domain.KeyAcrylGlass,
	"uv-druck":                domain.KeyUVPrint,
	"uv druck":                domain.KeyUVPrint,
	"led":                     domain.KeyLED,
	"elemente":                domain.KeyElements,
	"montage":                 domain.KeyAssembly,
	"verpackung":              domain.KeyPackaging,
	"controller":              domain.KeyController,
	"controller hochleistung": domain.KeyControllerHighPower,
	"stundenlohn":             domain.KeyHourlyWage,
	"zeit pro m2":             domain.KeyTimePerM2,
	"zeit pro element":        domain.KeyTimePerElement,
	"wasserdicht":             domain.KeyWaterproofing,
	"mehrteilig":              domain.KeyMultiPart,
	"verwaltungskosten":       domain.KeyAdministrativeCosts,
	"expressproduktion":       domain.KeyExpressProduction,
	"kilometerpauschale":      domain.KeyDistanceRate,
	"haengesystem":            domain.KeyHangingSystem,

	"netzteil usb 15w": domain.KeyPowerUSB15W,
	"netzteil 30w":     domain.KeyPower30W,
	"netzteil 70w":     domain.KeyPower70W,
	"netzteil 120w":    domain.KeyPower120W,
	"netzteil 200w":    domain.KeyPower200W,
	"netzteil 250w":    domain.KeyPower250W,
	"netzteil 300w":    domain.KeyPower300W,
	"netzteil 400w":    domain.KeyPower400W,
	"netzteil 1000w":   domain.KeyPower1000W,

	"dhl klein 20cm":        domain.KeyDHLKlein20,
	"dhl mittel 60cm":       domain.KeyDHLMittel60,
	"dhl gross 100cm":       domain.KeyDHLGross100,
	"spedition 120cm":       domain.KeySpedition120,
	"guetertransport 240cm": domain.KeyGuttransport24,
}

// KeyForRow resolves a board row to a logical price key. The item ID wins;
// the display name is a fallback for rows that were deleted and re-created.
func KeyForRow(row Row) (domain.PriceKey, bool) {
	if key, ok := rowIDToKey[strings.TrimSpace(row.ID)]; ok {
		return key, true
	}
	key, ok := rowNameToKey[normalizeRowName(row.Name)]
	return key, ok
}

// normalizeRowName lowercases, folds umlauts to their ASCII digraphs, and
// collapses interior whitespace so cosmetic renames still match.
func normalizeRowName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(
		"ä", "ae",
		"ö", "oe",
		"ü", "ue",
		"ß", "ss",
		"²", "2",
	)
	lowered = replacer.Replace(lowered)
	return strings.Join(strings.Fields(lowered), " ")
}

// DecodeRows turns board rows into price entries and catalog designs. Rows
// that map to a logical key become tagged entries; rows that do not but
// carry design-shaped columns become catalog designs; everything else is
// dropped. A row whose numeric cell cannot be parsed is skipped so the
// previous value for its key survives the merge.
func DecodeRows(rows []Row) (map[domain.PriceKey]domain.PriceEntry, []domain.Design) {
	entries := make(map[domain.PriceKey]domain.PriceEntry)
	var designs []domain.Design

	for _, row := range rows {
		key, ok := KeyForRow(row)
		if !ok {
			if design, ok := designFromRow(row); ok {
				designs = append(designs, design)
			}
			continue
		}

		unit := ""
		if col, ok := row.Column(colUnit); ok {
			unit = strings.TrimSpace(col.Text)
		}

		switch {
		case domain.PercentageKeys[key]:
			if rate, ok := rateFromRow(row); ok {
				entries[key] = domain.Percentage(rate)
			}
		case domain.LaborKeys[key]:
			if hours, ok := numberFromColumn(row, colHours); ok {
				entries[key] = domain.LaborFactor(hours, unit)
			}
		default:
			if amount, ok := numberFromColumn(row, colPrice); ok {
				entries[key] = domain.UnitPrice(amount, unit)
			}
		}
	}

	return entries, designs
}

// rateFromRow reads the percent column and normalizes board conventions:
// values above 1 are percent points ("25"), values at or below 1 are
// already fractions ("0,25").
func rateFromRow(row Row) (float64, bool) {
	value, ok := numberFromColumn(row, colPercent)
	if !ok {
		return 0, false
	}
	if value > 1 {
		value /= 100
	}
	return value, true
}

func numberFromColumn(row Row, columnKey string) (float64, bool) {
	col, ok := row.Column(columnKey)
	if !ok {
		return 0, false
	}
	return ParseNumber(col)
}

// designFromRow captures a catalog design from a row carrying the
// design-shaped columns. Width, height, and LED length must all be present
// and positive; element count and asset path are optional.
func designFromRow(row Row) (domain.Design, bool) {
	width, okW := numberFromColumn(row, colWidth)
	height, okH := numberFromColumn(row, colHeight)
	ledLength, okL := numberFromColumn(row, colLEDLength)
	if !okW || !okH || !okL {
		return domain.Design{}, false
	}

	design := domain.Design{
		ID:           strings.TrimSpace(row.ID),
		Name:         strings.TrimSpace(row.Name),
		RefWidthCm:   width,
		RefHeightCm:  height,
		RefLEDLength: ledLength,
	}
	if count, ok := numberFromColumn(row, colElements); ok {
		design.ElementCount = int(count)
	}
	if col, ok := row.Column(colAsset); ok {
		design.AssetPath = strings.TrimSpace(col.Text)
	}
	if !design.Valid() {
		return domain.Design{}, false
	}
	return design, true
}
