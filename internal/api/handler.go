package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/mtlprog/pricedeck/internal/catalog"
	"github.com/mtlprog/pricedeck/internal/deck"
	"github.com/mtlprog/pricedeck/internal/domain"
	"github.com/mtlprog/pricedeck/internal/store"
)

// ItemCatalog lists and picks items.
type ItemCatalog interface {
	RandomItemID(ctx context.Context) (int64, error)
	ListItems(ctx context.Context) ([]domain.Item, error)
}

// Handler provides HTTP endpoints for the deck API.
type Handler struct {
	decks *deck.Engine
	items ItemCatalog
}

// NewHandler creates a new API handler.
func NewHandler(decks *deck.Engine, items ItemCatalog) *Handler {
	return &Handler{decks: decks, items: items}
}

// Health handles GET /v1/health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// GetDeck handles GET /v1/deck/{id}.
func (h *Handler) GetDeck(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	opts, msg := parseDeckOptions(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	d, err := h.decks.ComputeDeck(r.Context(), id, opts.year)
	if err != nil {
		if isNoData(err) {
			writeError(w, http.StatusNotFound, "item not found or no data")
			return
		}
		slog.Error("failed to compute deck", "item", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, opts.apply(d))
}

// GetRandomDeck handles GET /v1/deck/random.
func (h *Handler) GetRandomDeck(w http.ResponseWriter, r *http.Request) {
	opts, msg := parseDeckOptions(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id, err := h.items.RandomItemID(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no items")
			return
		}
		slog.Error("failed to pick random item", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	d, err := h.decks.ComputeDeck(r.Context(), id, opts.year)
	if err != nil {
		if isNoData(err) {
			writeError(w, http.StatusNotFound, "random item had no usable data")
			return
		}
		slog.Error("failed to compute random deck", "item", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, opts.apply(d))
}

// ListItems handles GET /v1/items.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.ListItems(r.Context())
	if err != nil {
		slog.Error("failed to list items", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	items = catalog.Search(items, r.URL.Query().Get("q"))
	if items == nil {
		items = []domain.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

// deckOptions are the optional query parameters of the deck routes.
type deckOptions struct {
	year    int
	btcCAGR *float64
}

func parseDeckOptions(r *http.Request) (deckOptions, string) {
	var opts deckOptions
	q := r.URL.Query()

	if y := q.Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil || year <= 0 {
			return deckOptions{}, "invalid year"
		}
		opts.year = year
	}

	if c := q.Get("btc_cagr"); c != "" {
		rate, err := strconv.ParseFloat(c, 64)
		if err != nil || math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= -1 {
			return deckOptions{}, "invalid btc_cagr"
		}
		opts.btcCAGR = &rate
	}

	return opts, ""
}

func (o deckOptions) apply(d domain.Deck) domain.Deck {
	if o.btcCAGR == nil {
		return d
	}
	return deck.Reproject(d, *o.btcCAGR)
}

func isNoData(err error) bool {
	return errors.Is(err, deck.ErrNoDeck) || errors.Is(err, store.ErrNotFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
