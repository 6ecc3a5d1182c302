package deck

import (
	"math"

	"github.com/mtlprog/pricedeck/internal/domain"
)

// YearsBetween returns the year span between two snapshots, never less than 1.
func YearsBetween(a, b domain.Snapshot) int {
	return max(1, abs(a.Year-b.Year))
}

// CAGR returns the compound yearly growth rate from then to now over years.
// A non-positive then or years yields 0.
func CAGR(now, then float64, years int) float64 {
	if then <= 0 || years <= 0 {
		return 0
	}
	return math.Pow(now/then, 1/float64(years)) - 1
}

// AbsPct returns the plain percentage change from then to now, or 0 when then is 0.
func AbsPct(now, then float64) float64 {
	if then == 0 {
		return 0
	}
	return (now - then) / then * 100
}

// PairChange computes the rounded absolute and compound percentage change for one pair.
func PairChange(now, then float64, years int) domain.Change {
	return domain.Change{
		AbsPct:  domain.Round(AbsPct(now, then), domain.PercentPrecision),
		CAGRPct: domain.Round(CAGR(now, then, years)*100, domain.PercentPrecision),
	}
}

// FiatChanges computes the fiat value changes for the three snapshot pairs.
// Each pair uses its own span and values; none is derived from the others.
func FiatChanges(s domain.Snapshots, r Rounding) domain.ChangeSet {
	return changeSet(s, r.fiat)
}

// BTCChanges computes the BTC amount changes for the three snapshot pairs.
func BTCChanges(s domain.Snapshots, r Rounding) domain.ChangeSet {
	return changeSet(s, r.btc)
}

func changeSet(s domain.Snapshots, value func(domain.Snapshot) float64) domain.ChangeSet {
	return domain.ChangeSet{
		Y10ToY5: PairChange(value(s.Y5), value(s.Y10), YearsBetween(s.Y5, s.Y10)),
		Y5ToY0:  PairChange(value(s.Y0), value(s.Y5), YearsBetween(s.Y0, s.Y5)),
		Y10ToY0: PairChange(value(s.Y0), value(s.Y10), YearsBetween(s.Y0, s.Y10)),
	}
}

// TrailingFiatRates returns the fiat compound rates from the y5 and y10 snapshots to today.
func TrailingFiatRates(s domain.Snapshots, r Rounding) domain.TrailingRates {
	return domain.TrailingRates{
		Y5:  CAGR(r.fiat(s.Y0), r.fiat(s.Y5), YearsBetween(s.Y0, s.Y5)),
		Y10: CAGR(r.fiat(s.Y0), r.fiat(s.Y10), YearsBetween(s.Y0, s.Y10)),
	}
}

func (r Rounding) fiat(s domain.Snapshot) float64 {
	if r == RoundingPrecise {
		return s.ExactFiat
	}
	return s.Fiat.Value
}

func (r Rounding) btc(s domain.Snapshot) float64 {
	if r == RoundingPrecise {
		return s.ExactBTC
	}
	return s.BTC.BTC
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
