package deck

import (
	"github.com/samber/lo"

	"github.com/mtlprog/pricedeck/internal/domain"
)

// Anchor is one resolved point of the deck: the target year and the series year chosen for it.
type Anchor struct {
	Target int
	Year   int
	Found  bool
}

// YearPtr returns the resolved year, or nil when the anchor did not resolve.
func (a Anchor) YearPtr() *int {
	if !a.Found {
		return nil
	}
	return lo.ToPtr(a.Year)
}

// AnchorYears holds the three anchors of a deck.
type AnchorYears struct {
	Y0  Anchor
	Y5  Anchor
	Y10 Anchor
}

// ResolveAnchorYears resolves the reference year and the two offset years against an
// item's series. Each anchor is resolved on its own, so two anchors may land on the
// same series year when data is sparse.
func ResolveAnchorYears(series []domain.HistoricalPrice, referenceYear int, offsets [2]int) AnchorYears {
	resolve := func(target int) Anchor {
		year, ok := LatestYearAtOrBefore(series, target)
		return Anchor{Target: target, Year: year, Found: ok}
	}
	return AnchorYears{
		Y0:  resolve(referenceYear),
		Y5:  resolve(referenceYear - offsets[0]),
		Y10: resolve(referenceYear - offsets[1]),
	}
}

// LatestYearAtOrBefore returns the largest series year that is <= target.
// Rows without a price still count; the price check happens when the snapshot is built.
func LatestYearAtOrBefore(series []domain.HistoricalPrice, target int) (int, bool) {
	candidates := lo.Filter(series, func(p domain.HistoricalPrice, _ int) bool {
		return p.Year <= target
	})
	if len(candidates) == 0 {
		return 0, false
	}
	latest := lo.MaxBy(candidates, func(a, b domain.HistoricalPrice) bool {
		return a.Year > b.Year
	})
	return latest.Year, true
}

// PriceAt returns the stored price text for the given year.
func PriceAt(series []domain.HistoricalPrice, year int) *string {
	row, found := lo.Find(series, func(p domain.HistoricalPrice) bool {
		return p.Year == year
	})
	if !found {
		return nil
	}
	return row.Price
}
