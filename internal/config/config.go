package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port              string
	DatabaseDSN       string
	Env               string
	QuoteValidityDays int           // days until a sent quote expires
	AssetTimeout      time.Duration // per-image wait during export preparation
	ExportScale       int           // raster density multiplier for print output
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "file:telquote.db")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.QuoteValidityDays = ParseInt("QUOTE_VALIDITY_DAYS", 30)
	cfg.AssetTimeout = time.Duration(ParseInt("EXPORT_ASSET_TIMEOUT_MS", 5000)) * time.Millisecond
	cfg.ExportScale = ParseInt("EXPORT_SCALE", 2)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseInt reads an env var as int with default.
func ParseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
