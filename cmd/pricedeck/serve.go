package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/pricedeck/internal/api"
	"github.com/mtlprog/pricedeck/internal/database"
	"github.com/mtlprog/pricedeck/internal/deck"
	"github.com/mtlprog/pricedeck/internal/store"
	"github.com/mtlprog/pricedeck/internal/worker"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "HTTP listen port (overrides HTTP_PORT)",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	ctx, stop := context.WithCancel(c.Context)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("port") {
		cfg.HTTPPort = c.String("port")
	}

	pool, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := store.NewPgRepository(pool)

	var (
		engine     *deck.Engine
		purger     api.CachePurger
		workerDone <-chan struct{}
	)
	if cfg.CacheSize > 0 {
		cache, err := deck.NewCache(cfg.CacheSize, cfg.CacheTTL)
		if err != nil {
			return err
		}
		engine = deck.NewEngine(repo, cfg.Deck, cache)
		purger = cache

		// The worker owns the listener and closes it on exit.
		listener := database.NewListener(pool, database.SeriesChannel)
		invalidationWorker := worker.NewInvalidationWorker(listener, cache, cfg.ListenRetryDelay)
		workerDone = invalidationWorker.Start(ctx)
	} else {
		slog.Info("deck cache disabled")
		engine = deck.NewEngine(repo, cfg.Deck)
	}

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, cache purge endpoint is unprotected")
	}

	srv := api.NewServer(cfg.HTTPPort, engine, repo, purger, cfg.AdminAPIKey)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if workerDone != nil {
		<-workerDone
	}

	log.Println("Shutdown complete")
	return nil
}
