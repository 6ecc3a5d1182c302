package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeriesChannel is the notification channel raised when price series change.
const SeriesChannel = "deck_series_changed"

// Listener receives Postgres notifications on one channel over a dedicated connection.
// It is not safe for concurrent use; a single goroutine must own both waiting and Close.
type Listener struct {
	pool    *pgxpool.Pool
	channel string
	conn    *pgxpool.Conn
}

// NewListener creates a listener for channel. The connection is acquired on first wait.
func NewListener(pool *pgxpool.Pool, channel string) *Listener {
	return &Listener{pool: pool, channel: channel}
}

// WaitForNotification blocks until a notification arrives and returns its payload.
// After an error the connection is dropped and the next call reconnects.
func (l *Listener) WaitForNotification(ctx context.Context) (string, error) {
	if l.conn == nil {
		conn, err := l.pool.Acquire(ctx)
		if err != nil {
			return "", fmt.Errorf("acquiring listen connection: %w", err)
		}
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
			conn.Release()
			return "", fmt.Errorf("listening on %s: %w", l.channel, err)
		}
		l.conn = conn
	}

	n, err := l.conn.Conn().WaitForNotification(ctx)
	if err != nil {
		l.Close()
		return "", fmt.Errorf("waiting for notification on %s: %w", l.channel, err)
	}
	return n.Payload, nil
}

// Close releases the listening connection.
func (l *Listener) Close() {
	if l.conn == nil {
		return
	}
	// The connection goes back to the pool, so stop listening first.
	_, _ = l.conn.Exec(context.Background(), "UNLISTEN *")
	l.conn.Release()
	l.conn = nil
}
