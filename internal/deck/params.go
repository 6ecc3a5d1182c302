package deck

import (
	"errors"
	"fmt"
	"math"
)

// Rounding selects which snapshot values feed the growth and projection math.
type Rounding string

const (
	// RoundingDisplay reuses the rounded output values, matching historical deck output.
	RoundingDisplay Rounding = "display"
	// RoundingPrecise uses the unrounded values captured before output rounding.
	RoundingPrecise Rounding = "precise"
)

// Params are the engine's tunable constants.
type Params struct {
	// BTCCAGR is the assumed yearly BTC appreciation used for projections.
	BTCCAGR float64
	// MonthCutoff is the latest month sampled for a year's BTC quote.
	MonthCutoff int
	// Offsets are the two look-back distances in years; they double as projection horizons.
	Offsets      [2]int
	Rounding     Rounding
	FiatCurrency string
}

// DefaultParams returns the standard deck parameters.
func DefaultParams() Params {
	return Params{
		BTCCAGR:      0.30,
		MonthCutoff:  7,
		Offsets:      [2]int{5, 10},
		Rounding:     RoundingDisplay,
		FiatCurrency: "CAD",
	}
}

// Validate checks that the parameters describe a computable deck.
func (p Params) Validate() error {
	if p.MonthCutoff < 1 || p.MonthCutoff > 12 {
		return fmt.Errorf("month cutoff %d out of range 1..12", p.MonthCutoff)
	}
	if p.Offsets[0] <= 0 || p.Offsets[1] <= p.Offsets[0] {
		return fmt.Errorf("offsets %v must be positive and increasing", p.Offsets)
	}
	if math.IsNaN(p.BTCCAGR) || math.IsInf(p.BTCCAGR, 0) || p.BTCCAGR <= -1 {
		return fmt.Errorf("btc cagr %v must be finite and greater than -1", p.BTCCAGR)
	}
	switch p.Rounding {
	case RoundingDisplay, RoundingPrecise:
	default:
		return fmt.Errorf("unknown rounding order %q", p.Rounding)
	}
	if p.FiatCurrency == "" {
		return errors.New("fiat currency is required")
	}
	return nil
}
