package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/mtlprog/pricedeck/internal/domain"
)

// ErrNoDeck indicates that at least one of the three snapshots could not be resolved.
var ErrNoDeck = errors.New("no usable data for deck")

// Repository supplies the raw rows the engine works on.
type Repository interface {
	GetItem(ctx context.Context, id int64) (domain.Item, error)
	PriceHistory(ctx context.Context, itemID int64) ([]domain.HistoricalPrice, error)
	ReferenceRates(ctx context.Context, years []int) ([]domain.ReferenceRate, error)
}

// Engine computes decks from stored item and BTC price history.
type Engine struct {
	repo   Repository
	params Params
	cache  *Cache
	now    func() time.Time
}

// NewEngine creates a new Engine. An optional Cache can be provided to reuse decks
// for the same item and reference year.
func NewEngine(repo Repository, params Params, caches ...*Cache) *Engine {
	var cache *Cache
	if len(caches) > 0 {
		cache = caches[0]
	}
	return &Engine{repo: repo, params: params, cache: cache, now: time.Now}
}

// Params returns the parameters the engine computes decks with.
func (e *Engine) Params() Params {
	return e.params
}

// ComputeDeck builds the deck for an item. A zero referenceYear means the current year.
// It returns ErrNoDeck when any snapshot fails to resolve; no partial deck is ever returned.
func (e *Engine) ComputeDeck(ctx context.Context, itemID int64, referenceYear int) (domain.Deck, error) {
	if referenceYear == 0 {
		referenceYear = e.now().UTC().Year()
	}

	var gen cacheGen
	if e.cache != nil {
		if d, ok := e.cache.Get(itemID, referenceYear); ok {
			return d, nil
		}
		gen = e.cache.generation(itemID)
	}

	item, err := e.repo.GetItem(ctx, itemID)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("getting item %d: %w", itemID, err)
	}

	series, err := e.repo.PriceHistory(ctx, itemID)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("getting price history for item %d: %w", itemID, err)
	}

	anchors := ResolveAnchorYears(series, referenceYear, e.params.Offsets)
	years := anchorYearList(anchors)

	var rates []domain.ReferenceRate
	if len(years) > 0 {
		rates, err = e.repo.ReferenceRates(ctx, years)
		if err != nil {
			return domain.Deck{}, fmt.Errorf("getting btc rates: %w", err)
		}
	}

	d, err := BuildDeck(item, series, rates, referenceYear, e.params)
	if err != nil {
		return domain.Deck{}, err
	}

	if e.cache != nil && !e.cache.addIfCurrent(itemID, referenceYear, d, gen) {
		slog.Debug("deck not cached, series changed while computing", "item", itemID)
	}
	return d, nil
}

// BuildDeck runs the full pipeline over already-fetched rows.
func BuildDeck(item domain.Item, series []domain.HistoricalPrice, rates []domain.ReferenceRate, referenceYear int, p Params) (domain.Deck, error) {
	anchors := ResolveAnchorYears(series, referenceYear, p.Offsets)

	snap := func(label string, a Anchor) (domain.Snapshot, error) {
		var price, quote *string
		if a.Found {
			price = PriceAt(series, a.Year)
			quote = ReferenceRateAt(rates, a.Year, p.MonthCutoff)
		}
		s, ok := BuildSnapshot(a.YearPtr(), price, quote)
		if !ok {
			slog.Debug("deck snapshot unresolved", "item", item.ID, "anchor", label, "target", a.Target, "found", a.Found)
			return domain.Snapshot{}, ErrNoDeck
		}
		return s, nil
	}

	y0, err := snap("y0", anchors.Y0)
	if err != nil {
		return domain.Deck{}, err
	}
	y5, err := snap("y5", anchors.Y5)
	if err != nil {
		return domain.Deck{}, err
	}
	y10, err := snap("y10", anchors.Y10)
	if err != nil {
		return domain.Deck{}, err
	}

	snapshots := domain.Snapshots{Y10: y10, Y5: y5, Y0: y0}
	trailing := TrailingFiatRates(snapshots, p.Rounding)

	return domain.Deck{
		Item:        item,
		Snapshots:   snapshots,
		Projections: Projections(snapshots, trailing, p.Offsets, p.BTCCAGR, p.Rounding),
		FiveYearChanges: domain.FiveYearChanges{
			Fiat:      FiatChanges(snapshots, p.Rounding),
			BTCAmount: BTCChanges(snapshots, p.Rounding),
		},
		Params: domain.DeckParams{
			ItemID:           item.ID,
			AnchorYear:       referenceYear,
			AnchorMonth:      p.MonthCutoff,
			SnapOffsetsYears: []int{0, p.Offsets[0], p.Offsets[1]},
		},
		Assumptions: domain.Assumptions{
			FiatCurrency: p.FiatCurrency,
			BTCCAGR:      p.BTCCAGR,
			FiatCAGR:     trailing,
			Rounding:     string(p.Rounding),
		},
	}, nil
}

func anchorYearList(a AnchorYears) []int {
	return lo.Uniq(lo.FilterMap([]Anchor{a.Y0, a.Y5, a.Y10}, func(anchor Anchor, _ int) (int, bool) {
		return anchor.Year, anchor.Found
	}))
}
