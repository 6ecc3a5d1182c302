package deck

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/pricedeck/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// BuildSnapshot combines a resolved year, the item's price and the BTC quote into a
// snapshot. It reports false when the year or price is missing or the price is not a
// positive number. A missing or non-positive quote zeroes the BTC fields instead of failing.
func BuildSnapshot(year *int, price, btcQuote *string) (domain.Snapshot, bool) {
	if year == nil || price == nil {
		return domain.Snapshot{}, false
	}
	fiat, ok := domain.ParseAmount(*price)
	if !ok || !fiat.IsPositive() {
		return domain.Snapshot{}, false
	}

	snap := domain.Snapshot{
		Date:      fmt.Sprintf("%04d-01-01", *year),
		Fiat:      domain.FiatValue{Value: domain.RoundDecimal(fiat, domain.FiatPrecision)},
		Year:      *year,
		ExactFiat: fiat.InexactFloat64(),
		SmallItemMetrics: &domain.SmallItemMetrics{
			UnitsPer100:   domain.RoundDecimal(hundred.Div(fiat), domain.FiatPrecision),
			Applicability: "auto",
		},
	}

	if quote, ok := positiveQuote(btcQuote); ok {
		amount := fiat.Div(quote)
		rounded := amount.Round(domain.BTCPrecision)
		snap.BTC = domain.BTCAmount{
			BTC:  rounded.InexactFloat64(),
			Sats: domain.ToSats(rounded),
		}
		snap.BTCPriceUsed = quote.InexactFloat64()
		snap.ExactBTC = amount.InexactFloat64()
	}

	return snap, true
}

func positiveQuote(raw *string) (decimal.Decimal, bool) {
	if raw == nil {
		return decimal.Zero, false
	}
	q, ok := domain.ParseAmount(*raw)
	if !ok || !q.IsPositive() {
		return decimal.Zero, false
	}
	return q, true
}
