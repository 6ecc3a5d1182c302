package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mtlprog/pricedeck/internal/deck"
)

// paramsFile is the YAML layout of a deck parameter file. Absent keys keep the base value.
type paramsFile struct {
	BTCCAGR      *float64 `yaml:"btc_cagr"`
	MonthCutoff  *int     `yaml:"month_cutoff"`
	Offsets      []int    `yaml:"offsets"`
	Rounding     *string  `yaml:"rounding"`
	FiatCurrency *string  `yaml:"fiat_currency"`
}

// LoadDeckParams overlays the YAML file at path on base and validates the result.
// An empty path returns base after validation.
func LoadDeckParams(path string, base deck.Params) (deck.Params, error) {
	if path == "" {
		return base, base.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return deck.Params{}, fmt.Errorf("reading deck params %s: %w", path, err)
	}
	return parseDeckParams(data, base)
}

func parseDeckParams(data []byte, base deck.Params) (deck.Params, error) {
	var f paramsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return deck.Params{}, fmt.Errorf("parsing deck params: %w", err)
	}

	p := base
	if f.BTCCAGR != nil {
		p.BTCCAGR = *f.BTCCAGR
	}
	if f.MonthCutoff != nil {
		p.MonthCutoff = *f.MonthCutoff
	}
	if f.Offsets != nil {
		if len(f.Offsets) != 2 {
			return deck.Params{}, fmt.Errorf("offsets must list two years, got %v", f.Offsets)
		}
		p.Offsets = [2]int{f.Offsets[0], f.Offsets[1]}
	}
	if f.Rounding != nil {
		p.Rounding = deck.Rounding(*f.Rounding)
	}
	if f.FiatCurrency != nil {
		p.FiatCurrency = *f.FiatCurrency
	}

	if err := p.Validate(); err != nil {
		return deck.Params{}, fmt.Errorf("invalid deck params: %w", err)
	}
	return p, nil
}
