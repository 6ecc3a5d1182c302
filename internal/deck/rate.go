package deck

import (
	"github.com/samber/lo"

	"github.com/mtlprog/pricedeck/internal/domain"
)

// ReferenceRateAt returns the BTC quote for year at the latest sampled month <= cutoff.
// Quotes from other years are never substituted; nil means no usable quote.
func ReferenceRateAt(rates []domain.ReferenceRate, year, cutoff int) *string {
	inYear := lo.Filter(rates, func(r domain.ReferenceRate, _ int) bool {
		return r.Year == year && r.Month <= cutoff
	})
	if len(inYear) == 0 {
		return nil
	}
	latest := lo.MaxBy(inYear, func(a, b domain.ReferenceRate) bool {
		return a.Month > b.Month
	})
	return latest.Price
}
