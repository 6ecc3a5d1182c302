package deck

import (
	"math"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mtlprog/pricedeck/internal/domain"
)

// Project extrapolates today's snapshot over horizon years. The fiat value grows at the
// item's own trailing rate; the BTC price grows at the assumed btcCAGR. BTC fields are
// zero when today's snapshot has no BTC amount.
func Project(today domain.Snapshot, fiatCAGR float64, horizon int, btcCAGR float64, r Rounding) domain.Projection {
	fiat := r.fiat(today) * math.Pow(1+fiatCAGR, float64(horizon))
	proj := domain.Projection{Fiat: domain.Round(fiat, domain.FiatPrecision)}

	btcPrice := impliedBTCPrice(today, r)
	if btcPrice <= 0 {
		return proj
	}
	futurePrice := btcPrice * math.Pow(1+btcCAGR, float64(horizon))
	if futurePrice <= 0 {
		return proj
	}

	if r == RoundingDisplay {
		fiat = proj.Fiat
	}
	raw := fiat / futurePrice
	if !domain.IsFinite(raw) {
		return proj
	}
	amount := decimal.NewFromFloat(raw).Round(domain.BTCPrecision)
	proj.BTC = amount.InexactFloat64()
	proj.Sats = domain.ToSats(amount)
	return proj
}

// impliedBTCPrice derives today's BTC price in fiat from the snapshot itself.
func impliedBTCPrice(today domain.Snapshot, r Rounding) float64 {
	amount := r.btc(today)
	if amount <= 0 {
		return 0
	}
	price := r.fiat(today) / amount
	if r == RoundingDisplay {
		price = domain.Round(price, domain.FiatPrecision)
	}
	return price
}

// Projections computes both horizon projections for a set of snapshots.
func Projections(s domain.Snapshots, rates domain.TrailingRates, horizons [2]int, btcCAGR float64, r Rounding) domain.Projections {
	return domain.Projections{
		Y5:  Project(s.Y0, rates.Y5, horizons[0], btcCAGR, r),
		Y10: Project(s.Y0, rates.Y10, horizons[1], btcCAGR, r),
	}
}

// Reproject returns a copy of d with projections recomputed under a different assumed
// BTC growth rate. Anchors, snapshots and changes are reused as is.
func Reproject(d domain.Deck, btcCAGR float64) domain.Deck {
	var horizons [2]int
	copy(horizons[:], lo.Filter(d.Params.SnapOffsetsYears, func(y int, _ int) bool { return y > 0 }))

	out := d
	out.Projections = Projections(d.Snapshots, d.Assumptions.FiatCAGR, horizons, btcCAGR, Rounding(d.Assumptions.Rounding))
	out.Assumptions.BTCCAGR = btcCAGR
	return out
}
