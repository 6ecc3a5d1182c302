package worker

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

// purgeAllPayload is sent when a change affects every deck, such as new BTC quotes.
const purgeAllPayload = "*"

// NotificationSource delivers change notifications for the price series.
type NotificationSource interface {
	WaitForNotification(ctx context.Context) (string, error)
}

// closer is implemented by sources holding a connection. The worker closes such a
// source once its loop exits, so nothing else may touch it after Start.
type closer interface {
	Close()
}

// DeckInvalidator drops cached decks.
type DeckInvalidator interface {
	InvalidateItem(itemID int64)
	Purge()
}

// InvalidationWorker evicts cached decks whenever their underlying series change.
type InvalidationWorker struct {
	source     NotificationSource
	cache      DeckInvalidator
	retryDelay time.Duration
}

// NewInvalidationWorker creates a new InvalidationWorker.
func NewInvalidationWorker(source NotificationSource, cache DeckInvalidator, retryDelay time.Duration) *InvalidationWorker {
	return &InvalidationWorker{
		source:     source,
		cache:      cache,
		retryDelay: retryDelay,
	}
}

// Start runs the worker loop in a new goroutine. The returned channel is closed once
// the loop has exited and the source has been released.
func (w *InvalidationWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	return done
}

// Run starts the worker loop. It blocks until the context is cancelled.
func (w *InvalidationWorker) Run(ctx context.Context) {
	slog.Info("InvalidationWorker: starting")
	if c, ok := w.source.(closer); ok {
		defer c.Close()
	}

	for {
		payload, err := w.source.WaitForNotification(ctx)
		if ctx.Err() != nil {
			slog.Info("InvalidationWorker: shutting down")
			return
		}
		if err != nil {
			// Notifications may have been missed while disconnected.
			w.cache.Purge()
			slog.Error("InvalidationWorker: listen failed, cache purged", "error", err)
			select {
			case <-ctx.Done():
				slog.Info("InvalidationWorker: shutting down")
				return
			case <-time.After(w.retryDelay):
			}
			continue
		}
		w.apply(payload)
	}
}

func (w *InvalidationWorker) apply(payload string) {
	if payload == purgeAllPayload {
		w.cache.Purge()
		slog.Info("InvalidationWorker: btc series changed, cache purged")
		return
	}

	itemID, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		slog.Warn("InvalidationWorker: unexpected payload, cache purged", "payload", payload)
		w.cache.Purge()
		return
	}
	w.cache.InvalidateItem(itemID)
	slog.Debug("InvalidationWorker: item invalidated", "item", itemID)
}
