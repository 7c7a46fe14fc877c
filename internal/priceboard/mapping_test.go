package priceboard

import (
	"testing"

	"github.com/lichtwerk/api/internal/domain"
)

func priceRow(id, name, price, unit string) Row {
	return Row{
		ID:   id,
		Name: name,
		Columns: []ColumnValue{
			{ColumnKey: colPrice, Text: price},
			{ColumnKey: colUnit, Text: unit},
		},
	}
}

func TestKeyForRowIDTakesPriority(t *testing.T) {
	row := Row{ID: "1392077242", Name: "Verpackung"}
	key, ok := KeyForRow(row)
	if !ok {
		t.Fatal("expected key for known item id")
	}
	if key != domain.KeyAcrylGlass {
		t.Fatalf("key = %q, want %q (id table wins over name)", key, domain.KeyAcrylGlass)
	}
}

func TestKeyForRowNameFallback(t *testing.T) {
	cases := []struct {
		name string
		want domain.PriceKey
	}{
		{"Acrylglas", domain.KeyAcrylGlass},
		{"  HÄNGESYSTEM ", domain.KeyHangingSystem},
		{"Zeit pro m²", domain.KeyTimePerM2},
		{"Gütertransport 240cm", domain.KeyGuttransport24},
	}
	for _, tc := range cases {
		key, ok := KeyForRow(Row{ID: "999999", Name: tc.name})
		if !ok {
			t.Fatalf("KeyForRow(%q): no key", tc.name)
		}
		if key != tc.want {
			t.Fatalf("KeyForRow(%q) = %q, want %q", tc.name, key, tc.want)
		}
	}

	if _, ok := KeyForRow(Row{ID: "999999", Name: "Kaffeekasse"}); ok {
		t.Fatal("unknown row should not resolve to a key")
	}
}

func TestDecodeRowsEntryKinds(t *testing.T) {
	rows := []Row{
		priceRow("1392077242", "Acrylglas", "95,00 €", "m²"),
		{
			ID:   "1392077367",
			Name: "Wasserdicht",
			Columns: []ColumnValue{
				{ColumnKey: colPercent, Text: "25 %"},
			},
		},
		{
			ID:   "1392077342",
			Name: "Zeit pro m2",
			Columns: []ColumnValue{
				{ColumnKey: colHours, Text: "1,5"},
				{ColumnKey: colUnit, Text: "h/m²"},
			},
		},
	}

	entries, designs := DecodeRows(rows)
	if len(designs) != 0 {
		t.Fatalf("designs = %d, want 0", len(designs))
	}

	acryl := entries[domain.KeyAcrylGlass]
	if acryl.Kind != domain.EntryUnitPrice || acryl.Amount != 95 || acryl.Unit != "m²" {
		t.Fatalf("acryl entry = %+v", acryl)
	}
	water := entries[domain.KeyWaterproofing]
	if water.Kind != domain.EntryPercentage || water.Rate != 0.25 {
		t.Fatalf("waterproofing entry = %+v, want rate 0.25", water)
	}
	labor := entries[domain.KeyTimePerM2]
	if labor.Kind != domain.EntryLaborFactor || labor.Hours != 1.5 {
		t.Fatalf("labor entry = %+v, want 1.5 hours", labor)
	}
}

func TestDecodeRowsFractionalRate(t *testing.T) {
	rows := []Row{{
		ID:      "1392077378",
		Name:    "Mehrteilig",
		Columns: []ColumnValue{{ColumnKey: colPercent, Text: "0,15"}},
	}}
	entries, _ := DecodeRows(rows)
	if got := entries[domain.KeyMultiPart].Rate; got != 0.15 {
		t.Fatalf("rate = %v, want 0.15 (fraction passed through)", got)
	}
}

func TestDecodeRowsSkipsUnparseableCell(t *testing.T) {
	rows := []Row{priceRow("1392077263", "LED", "auf Anfrage", "m")}
	entries, _ := DecodeRows(rows)
	if _, ok := entries[domain.KeyLED]; ok {
		t.Fatal("unparseable price cell must not produce an entry")
	}
}

func TestDecodeRowsCapturesCatalogDesigns(t *testing.T) {
	rows := []Row{
		{
			ID:   "2000000001",
			Name: "Schriftzug Cafe",
			Columns: []ColumnValue{
				{ColumnKey: colWidth, Text: "400"},
				{ColumnKey: colHeight, Text: "200"},
				{ColumnKey: colLEDLength, Text: "12,0"},
				{ColumnKey: colElements, Text: "5"},
				{ColumnKey: colAsset, Text: "designs/cafe.svg"},
			},
		},
		// Missing LED length, must be dropped.
		{
			ID:   "2000000002",
			Name: "Unvollstaendig",
			Columns: []ColumnValue{
				{ColumnKey: colWidth, Text: "100"},
				{ColumnKey: colHeight, Text: "50"},
			},
		},
	}

	entries, designs := DecodeRows(rows)
	if len(entries) != 0 {
		t.Fatalf("entries = %d, want 0", len(entries))
	}
	if len(designs) != 1 {
		t.Fatalf("designs = %d, want 1", len(designs))
	}
	design := designs[0]
	if design.ID != "2000000001" || design.Name != "Schriftzug Cafe" {
		t.Fatalf("design identity = %+v", design)
	}
	if design.RefWidthCm != 400 || design.RefHeightCm != 200 || design.RefLEDLength != 12 {
		t.Fatalf("design dimensions = %+v", design)
	}
	if design.ElementCount != 5 || design.AssetPath != "designs/cafe.svg" {
		t.Fatalf("design extras = %+v", design)
	}
}
