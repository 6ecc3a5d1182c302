package domain

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// FiatPrecision is the number of fractional digits kept for local-currency values.
	FiatPrecision = 2
	// BTCPrecision is the number of fractional digits kept for BTC amounts.
	BTCPrecision = 8
	// PercentPrecision is the number of fractional digits kept for percentages.
	PercentPrecision = 2

	// satsExponent shifts a BTC amount into sats (1 BTC = 100_000_000 sats).
	satsExponent = 8
)

// ParseAmount parses a stored numeric value. It reports false for empty or non-numeric input,
// unlike a zero-defaulting parse, so callers can tell "missing" from "zero".
func ParseAmount(value string) (decimal.Decimal, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Round rounds f half away from zero to the given number of fractional digits.
// NaN and infinities round to 0.
func Round(f float64, places int32) float64 {
	if !IsFinite(f) {
		return 0
	}
	return decimal.NewFromFloat(f).Round(places).InexactFloat64()
}

// RoundDecimal rounds d to places fractional digits and converts it to float64.
func RoundDecimal(d decimal.Decimal, places int32) float64 {
	return d.Round(places).InexactFloat64()
}

// ToSats converts a BTC amount into whole sats, rounding half away from zero.
func ToSats(btc decimal.Decimal) int64 {
	return btc.Shift(satsExponent).Round(0).IntPart()
}

// IsFinite reports whether f is neither NaN nor an infinity.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
