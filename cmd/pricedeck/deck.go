package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/pricedeck/internal/deck"
	"github.com/mtlprog/pricedeck/internal/export"
	"github.com/mtlprog/pricedeck/internal/store"
)

func deckCommand() *cli.Command {
	return &cli.Command{
		Name:  "deck",
		Usage: "compute one deck and print it as JSON",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "id", Usage: "item id", Required: true},
			&cli.IntFlag{Name: "year", Usage: "reference year (default: current year)"},
			&cli.Float64Flag{Name: "btc-cagr", Usage: "assumed BTC compound annual growth rate"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			pool, err := openDatabase(c.Context, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			engine := deck.NewEngine(store.NewPgRepository(pool), cfg.Deck)
			d, err := engine.ComputeDeck(c.Context, c.Int64("id"), c.Int("year"))
			if err != nil {
				return fmt.Errorf("computing deck: %w", err)
			}
			if c.IsSet("btc-cagr") {
				d = deck.Reproject(d, c.Float64("btc-cagr"))
			}

			out, err := json.MarshalIndent(d, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding deck: %w", err)
			}
			fmt.Fprintln(c.App.Writer, string(out))
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "export decks for every item to an XLSX file or Google Sheets",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Usage: "reference year (default: current year)"},
			&cli.StringFlag{Name: "out", Usage: "XLSX output path; when empty, SHEET_ID is used"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			var writer export.DeckWriter
			switch {
			case c.String("out") != "":
				writer = export.NewXLSXWriter(c.String("out"))
			case cfg.SheetID != "" && cfg.GoogleCredentialsJSON != "":
				sw, err := export.NewSheetsWriter(c.Context, cfg.SheetID, cfg.GoogleCredentialsJSON)
				if err != nil {
					return err
				}
				writer = sw
			default:
				return fmt.Errorf("either --out or SHEET_ID with GOOGLE_CREDENTIALS_JSON is required")
			}

			pool, err := openDatabase(c.Context, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := store.NewPgRepository(pool)
			engine := deck.NewEngine(repo, cfg.Deck)

			n, err := export.NewService(engine, repo, writer).Export(c.Context, c.Int("year"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "exported %d decks\n", n)
			return nil
		},
	}
}
