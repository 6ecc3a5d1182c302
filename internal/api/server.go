package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/mtlprog/pricedeck/internal/deck"
)

// CachePurger clears cached decks.
type CachePurger interface {
	Purge()
}

// NewServer creates an HTTP server with all routes configured.
// cache may be nil when caching is disabled.
func NewServer(port string, decks *deck.Engine, items ItemCatalog, cache CachePurger, adminAPIKey string) *http.Server {
	handler := NewHandler(decks, items)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", handler.Health)
	mux.HandleFunc("GET /v1/deck/random", handler.GetRandomDeck)
	mux.HandleFunc("GET /v1/deck/{id}", handler.GetDeck)
	mux.HandleFunc("GET /v1/items", handler.ListItems)

	if cache != nil {
		purge := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			cache.Purge()
			writeJSON(w, http.StatusOK, map[string]string{"status": "purged"})
		})
		if adminAPIKey != "" {
			mux.Handle("POST /v1/cache/purge", requireAuth(adminAPIKey, purge))
		} else {
			mux.Handle("POST /v1/cache/purge", purge)
		}
	}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      withCORS(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withCORS allows any origin; preflight requests are answered directly.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
