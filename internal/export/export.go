package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mtlprog/pricedeck/internal/deck"
	"github.com/mtlprog/pricedeck/internal/domain"
)

// DeckWriter writes deck rows to a spreadsheet destination.
type DeckWriter interface {
	Write(ctx context.Context, rows [][]any) error
}

// ItemLister lists the items to export.
type ItemLister interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
}

// DeckComputer computes one deck.
type DeckComputer interface {
	ComputeDeck(ctx context.Context, itemID int64, referenceYear int) (domain.Deck, error)
}

// Service computes decks for every item and delegates writing to a DeckWriter.
type Service struct {
	decks  DeckComputer
	items  ItemLister
	writer DeckWriter
}

// NewService creates a new export Service.
func NewService(decks DeckComputer, items ItemLister, writer DeckWriter) *Service {
	return &Service{decks: decks, items: items, writer: writer}
}

// Export writes one row per item with a complete deck. Items without usable data
// are skipped. It returns the number of decks written.
func (s *Service) Export(ctx context.Context, referenceYear int) (int, error) {
	items, err := s.items.ListItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing items: %w", err)
	}

	decks := make([]domain.Deck, 0, len(items))
	for _, item := range items {
		d, err := s.decks.ComputeDeck(ctx, item.ID, referenceYear)
		if err != nil {
			if errors.Is(err, deck.ErrNoDeck) {
				slog.Info("export: skipping item without usable data", "item", item.ID, "name", item.Name)
				continue
			}
			return 0, fmt.Errorf("computing deck for item %d: %w", item.ID, err)
		}
		decks = append(decks, d)
	}

	if err := s.writer.Write(ctx, buildDeckRows(decks)); err != nil {
		return 0, fmt.Errorf("writing decks: %w", err)
	}
	return len(decks), nil
}

// deckHeader lists the exported columns.
var deckHeader = []any{
	"ID", "Name", "Unit", "Category",
	"Y10 Year", "Y10 Fiat", "Y10 Sats",
	"Y5 Year", "Y5 Fiat", "Y5 Sats",
	"Y0 Year", "Y0 Fiat", "Y0 Sats",
	"Fiat 10-0 %", "Fiat CAGR 10-0 %",
	"BTC 10-0 %", "BTC CAGR 10-0 %",
	"Proj Y5 Fiat", "Proj Y5 Sats",
	"Proj Y10 Fiat", "Proj Y10 Sats",
	"BTC CAGR Assumed",
}

// buildDeckRows builds the sheet data: a header row, then one row per deck.
func buildDeckRows(decks []domain.Deck) [][]any {
	data := make([][]any, 0, len(decks)+1)
	data = append(data, deckHeader)

	for _, d := range decks {
		s := d.Snapshots
		data = append(data, []any{
			d.Item.ID, d.Item.Name, d.Item.Unit, d.Item.Category,
			s.Y10.Year, s.Y10.Fiat.Value, s.Y10.BTC.Sats,
			s.Y5.Year, s.Y5.Fiat.Value, s.Y5.BTC.Sats,
			s.Y0.Year, s.Y0.Fiat.Value, s.Y0.BTC.Sats,
			d.FiveYearChanges.Fiat.Y10ToY0.AbsPct, d.FiveYearChanges.Fiat.Y10ToY0.CAGRPct,
			d.FiveYearChanges.BTCAmount.Y10ToY0.AbsPct, d.FiveYearChanges.BTCAmount.Y10ToY0.CAGRPct,
			d.Projections.Y5.Fiat, d.Projections.Y5.Sats,
			d.Projections.Y10.Fiat, d.Projections.Y10.Sats,
			d.Assumptions.BTCCAGR,
		})
	}

	return data
}
