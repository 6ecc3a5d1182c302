package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const deckSheet = "DECKS"

// XLSXWriter implements DeckWriter by saving an Excel workbook to a file.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter creates a writer that saves to path, replacing any existing file.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

func (w *XLSXWriter) Write(_ context.Context, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", deckSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("resolving cell for row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(deckSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", w.path, err)
	}
	return nil
}
