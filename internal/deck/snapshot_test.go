package deck

import (
	"math"
	"testing"

	"github.com/samber/lo"
)

func TestBuildSnapshotWithQuote(t *testing.T) {
	snap, ok := BuildSnapshot(lo.ToPtr(2025), lo.ToPtr("5.70"), lo.ToPtr("115758.20"))
	if !ok {
		t.Fatal("expected snapshot")
	}

	if snap.Date != "2025-01-01" {
		t.Errorf("Date = %q, want 2025-01-01", snap.Date)
	}
	if snap.Fiat.Value != 5.70 {
		t.Errorf("Fiat = %v, want 5.70", snap.Fiat.Value)
	}
	if snap.BTC.BTC != 0.00004924 {
		t.Errorf("BTC = %v, want 0.00004924", snap.BTC.BTC)
	}
	if snap.BTC.Sats != 4924 {
		t.Errorf("Sats = %d, want 4924", snap.BTC.Sats)
	}
	if snap.BTCPriceUsed != 115758.20 {
		t.Errorf("BTCPriceUsed = %v, want 115758.20", snap.BTCPriceUsed)
	}
	if snap.SmallItemMetrics == nil || snap.SmallItemMetrics.UnitsPer100 != 17.54 {
		t.Errorf("SmallItemMetrics = %+v, want unitsPer100 17.54", snap.SmallItemMetrics)
	}
	if snap.SmallItemMetrics != nil && snap.SmallItemMetrics.Applicability != "auto" {
		t.Errorf("Applicability = %q, want auto", snap.SmallItemMetrics.Applicability)
	}
	if math.Abs(snap.ExactBTC-0.0000492405721) > 1e-12 {
		t.Errorf("ExactBTC = %v, want unrounded amount", snap.ExactBTC)
	}
}

func TestBuildSnapshotSatsMatchRoundedBTC(t *testing.T) {
	cases := []struct{ price, quote string }{
		{"3.69", "288.45"},
		{"4.68", "11042.40"},
		{"1450", "63000.55"},
		{"0.01", "100000"},
		{"999999.99", "1.23"},
	}

	for _, c := range cases {
		snap, ok := BuildSnapshot(lo.ToPtr(2020), lo.ToPtr(c.price), lo.ToPtr(c.quote))
		if !ok {
			t.Fatalf("expected snapshot for %s/%s", c.price, c.quote)
		}
		if want := int64(math.Round(snap.BTC.BTC * 100_000_000)); snap.BTC.Sats != want {
			t.Errorf("%s/%s: sats = %d, want %d", c.price, c.quote, snap.BTC.Sats, want)
		}
	}
}

func TestBuildSnapshotZeroesBTCWithoutUsableQuote(t *testing.T) {
	tests := []struct {
		name  string
		quote *string
	}{
		{"missing quote", nil},
		{"zero quote", lo.ToPtr("0")},
		{"negative quote", lo.ToPtr("-10")},
		{"non-numeric quote", lo.ToPtr("n/a")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, ok := BuildSnapshot(lo.ToPtr(2020), lo.ToPtr("4.675"), tt.quote)
			if !ok {
				t.Fatal("snapshot should still build without a quote")
			}
			if snap.BTC.BTC != 0 || snap.BTC.Sats != 0 || snap.BTCPriceUsed != 0 {
				t.Errorf("BTC = %+v, used %v, want zeros", snap.BTC, snap.BTCPriceUsed)
			}
			if snap.Fiat.Value != 4.68 {
				t.Errorf("Fiat = %v, want 4.68", snap.Fiat.Value)
			}
		})
	}
}

func TestBuildSnapshotFailures(t *testing.T) {
	tests := []struct {
		name  string
		year  *int
		price *string
	}{
		{"missing year", nil, lo.ToPtr("1.00")},
		{"missing price", lo.ToPtr(2020), nil},
		{"empty price", lo.ToPtr(2020), lo.ToPtr("")},
		{"non-numeric price", lo.ToPtr(2020), lo.ToPtr("about four")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := BuildSnapshot(tt.year, tt.price, lo.ToPtr("100")); ok {
				t.Error("expected no snapshot")
			}
		})
	}
}

func TestBuildSnapshotRejectsNonPositivePrice(t *testing.T) {
	for _, p := range []string{"0", "0.00", "-1", "-4.68"} {
		t.Run(p, func(t *testing.T) {
			if _, ok := BuildSnapshot(lo.ToPtr(2020), lo.ToPtr(p), lo.ToPtr("100")); ok {
				t.Errorf("BuildSnapshot with price %s: expected no snapshot", p)
			}
		})
	}
}
