package domain

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

func TestZoneValid(t *testing.T) {
	for _, zone := range AllZones {
		if !zone.Valid() {
			t.Fatalf("expected %s to be valid", zone)
		}
	}
	if Zone("moon").Valid() || Zone("").Valid() {
		t.Fatalf("expected unknown zones to be invalid")
	}
}

func TestFreightConfigThresholdAndClone(t *testing.T) {
	cfg := &FreightConfig{
		ZoneCosts:              map[Zone]decimal.Decimal{ZoneLocal: decimal.NewFromInt(10)},
		ThresholdLocal:         decimal.NewFromInt(100),
		ThresholdNational:      decimal.NewFromInt(200),
		ThresholdInternational: decimal.NewFromInt(500),
	}

	want := map[ZoneCategory]int64{CategoryLocal: 100, CategoryNational: 200, CategoryInternational: 500}
	for _, category := range AllCategories {
		if got := cfg.Threshold(category); !got.Equal(decimal.NewFromInt(want[category])) {
			t.Fatalf("threshold %s: got %s", category, got)
		}
	}

	clone := cfg.Clone()
	clone.ZoneCosts[ZoneLocal] = decimal.NewFromInt(99)
	if cost, _ := cfg.Cost(ZoneLocal); !cost.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("clone shares zone costs with the original")
	}
	if _, ok := cfg.Cost(ZoneIntlAsia); ok {
		t.Fatalf("expected missing cost to be reported")
	}
}

func TestRawAmountUnmarshal(t *testing.T) {
	var c FreightConfigCandidate
	body := `{"zoneCosts":{"local":12.50,"north_island":"18.75","south_island":null},"thresholdLocal":"abc"}`
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if c.ZoneCosts[ZoneLocal] != "12.50" {
		t.Fatalf("numbers must keep their literal text, got %q", c.ZoneCosts[ZoneLocal])
	}
	if d, err := c.ZoneCosts[ZoneNorthIsland].Decimal(); err != nil || !d.Equal(decimal.RequireFromString("18.75")) {
		t.Fatalf("unexpected string amount %v %v", d, err)
	}
	if !c.ZoneCosts[ZoneSouthIsland].IsBlank() || !c.ThresholdNational.IsBlank() {
		t.Fatalf("null and absent amounts must be blank")
	}
	if _, err := c.ThresholdLocal.Decimal(); err == nil {
		t.Fatalf("expected non-numeric amount to fail parsing")
	}
}

func TestParseAmount(t *testing.T) {
	valid := map[string]string{
		"12":            "12",
		" 12.5 ":        "12.5",
		"12.50":         "12.5",
		"12.500":        "12.5",
		"-3":            "-3",
		"9999999999.99": "9999999999.99",
	}
	for in, want := range valid {
		got, err := ParseAmount(in)
		if err != nil || !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("%q: got %s %v", in, got, err)
		}
	}

	invalid := map[string]error{
		"":                           ErrAmountNotNumber,
		"abc":                        ErrAmountNotNumber,
		"1e50000000":                 ErrAmountNotNumber,
		"1E2":                        ErrAmountNotNumber,
		"0.001":                      ErrAmountPrecision,
		"12.345":                     ErrAmountPrecision,
		"10000000000":                ErrAmountTooLarge,
		"-10000000000":               ErrAmountTooLarge,
		"12345678901234567890123456": ErrAmountNotNumber,
	}
	for in, want := range invalid {
		if _, err := ParseAmount(in); err != want {
			t.Fatalf("%q: expected %v, got %v", in, want, err)
		}
	}

	if _, err := RawAmount("0.001").Decimal(); err != ErrAmountPrecision {
		t.Fatalf("expected raw amount to share parsing rules, got %v", err)
	}
}
