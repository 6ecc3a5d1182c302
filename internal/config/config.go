package config

import (
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/mtlprog/pricedeck/internal/deck"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatabaseURL           string
	HTTPPort              string
	AdminAPIKey           string
	Deck                  deck.Params
	DeckConfigFile        string
	CacheSize             int
	CacheTTL              time.Duration
	ListenRetryDelay      time.Duration
	SheetID               string
	GoogleCredentialsJSON string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	defaults := deck.DefaultParams()
	return Config{
		DatabaseURL: envOrDefaultWarn("DATABASE_URL", ""),
		HTTPPort:    envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey: envOrDefault("ADMIN_API_KEY", ""),
		Deck: deck.Params{
			BTCCAGR:      envOrDefaultFloat("DECK_BTC_CAGR", defaults.BTCCAGR),
			MonthCutoff:  envOrDefaultInt("DECK_MONTH_CUTOFF", defaults.MonthCutoff),
			Offsets:      defaults.Offsets,
			Rounding:     deck.Rounding(envOrDefault("DECK_ROUNDING", string(defaults.Rounding))),
			FiatCurrency: envOrDefault("FIAT_CURRENCY", defaults.FiatCurrency),
		},
		DeckConfigFile:        envOrDefault("DECK_CONFIG_FILE", ""),
		CacheSize:             envOrDefaultInt("DECK_CACHE_SIZE", 512),
		CacheTTL:              envOrDefaultDuration("DECK_CACHE_TTL", 10*time.Minute),
		ListenRetryDelay:      envOrDefaultDuration("LISTEN_RETRY_DELAY", 5*time.Second),
		SheetID:               envOrDefault("SHEET_ID", ""),
		GoogleCredentialsJSON: envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			slog.Warn("invalid float env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return f
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
