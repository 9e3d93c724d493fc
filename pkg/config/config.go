package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DatabaseURL  string
	RedisURL     string // empty disables the cache layer
	CacheTTLSecs int
	DeletePolicy string // cascade | restrict

	QuoteAPIURL      string
	QuoteAPIToken    string
	MarketIndex      string
	RiskLookbackDays int
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	return Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		CacheTTLSecs:     getEnvInt("CACHE_TTL_SECONDS", 300),
		DeletePolicy:     getEnv("DELETE_POLICY", "cascade"),
		QuoteAPIURL:      getEnv("QUOTE_API_URL", "https://quotes.riskpulse.dev/v1"),
		QuoteAPIToken:    os.Getenv("QUOTE_API_TOKEN"),
		MarketIndex:      getEnv("MARKET_INDEX", "^GSPC"),
		RiskLookbackDays: getEnvInt("RISK_LOOKBACK_DAYS", 365),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
