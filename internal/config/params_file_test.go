package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mtlprog/pricedeck/internal/deck"
)

func TestParseDeckParamsOverlay(t *testing.T) {
	data := []byte(`
btc_cagr: 0.25
month_cutoff: 6
offsets: [3, 7]
rounding: precise
`)

	p, err := parseDeckParams(data, deck.DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.BTCCAGR != 0.25 {
		t.Errorf("BTCCAGR = %v, want 0.25", p.BTCCAGR)
	}
	if p.MonthCutoff != 6 {
		t.Errorf("MonthCutoff = %d, want 6", p.MonthCutoff)
	}
	if p.Offsets != [2]int{3, 7} {
		t.Errorf("Offsets = %v, want [3 7]", p.Offsets)
	}
	if p.Rounding != deck.RoundingPrecise {
		t.Errorf("Rounding = %q, want precise", p.Rounding)
	}
	if p.FiatCurrency != "CAD" {
		t.Errorf("FiatCurrency = %q, want base value CAD", p.FiatCurrency)
	}
}

func TestParseDeckParamsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "btc_cagr: [1"},
		{"three offsets", "offsets: [1, 2, 3]"},
		{"cutoff out of range", "month_cutoff: 14"},
		{"unknown rounding", "rounding: sometimes"},
		{"NaN rate", "btc_cagr: .nan"},
		{"infinite rate", "btc_cagr: .inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseDeckParams([]byte(tt.data), deck.DefaultParams()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadDeckParamsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.yaml")
	if err := os.WriteFile(path, []byte("btc_cagr: 0.1\n"), 0o600); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	p, err := LoadDeckParams(path, deck.DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.BTCCAGR != 0.1 {
		t.Errorf("BTCCAGR = %v, want 0.1", p.BTCCAGR)
	}
}

func TestLoadDeckParamsEmptyPath(t *testing.T) {
	p, err := LoadDeckParams("", deck.DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != deck.DefaultParams() {
		t.Errorf("params = %+v, want defaults", p)
	}
}

func TestLoadDeckParamsMissingFile(t *testing.T) {
	if _, err := LoadDeckParams(filepath.Join(t.TempDir(), "nope.yaml"), deck.DefaultParams()); err == nil {
		t.Error("expected error for missing file")
	}
}
