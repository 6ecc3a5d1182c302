package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/pricedeck/internal/config"
	"github.com/mtlprog/pricedeck/internal/database"
	"github.com/mtlprog/pricedeck/internal/deck"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "pricedeck",
		Usage: "price decks comparing everyday items in local currency and bitcoin",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "deck-config",
				Usage:   "YAML file overriding the deck engine parameters",
				EnvVars: []string{"DECK_CONFIG_FILE"},
			},
			&cli.StringFlag{
				Name:  "rounding",
				Usage: "rounding order for growth math: display or precise",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			deckCommand(),
			exportCommand(),
			migrateCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatalf("pricedeck: %v", err)
	}
}

// loadConfig reads the environment and applies the global flags on top of it.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Load()

	path := cfg.DeckConfigFile
	if c.IsSet("deck-config") {
		path = c.String("deck-config")
	}

	base := cfg.Deck
	if c.IsSet("rounding") {
		base.Rounding = deck.Rounding(c.String("rounding"))
	}

	params, err := config.LoadDeckParams(path, base)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading deck params: %w", err)
	}
	cfg.Deck = params
	return cfg, nil
}

// openDatabase connects to Postgres and applies pending migrations.
func openDatabase(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating migrations sub-fs: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return pool, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending database migrations and exit",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			pool, err := openDatabase(c.Context, cfg)
			if err != nil {
				return err
			}
			pool.Close()
			log.Println("Migrations applied")
			return nil
		},
	}
}
