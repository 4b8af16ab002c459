// Package config centralizes environment configuration. A .env file in the
// working directory is loaded first if present; real environment variables
// win.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath      string
	Port        string
	CORSOrigins string

	// Scraper
	WarcryBaseURL    string
	ScrapeRatePerSec float64

	// Valuation
	RarityTablePath string
	CacheSize       int
	CacheTTL        time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	return Config{
		DBPath:           getEnv("DB_PATH", "./deckvalue.db"),
		Port:             getEnv("PORT", "8080"),
		CORSOrigins:      getEnv("CORS_ALLOWED_ORIGINS", ""),
		WarcryBaseURL:    getEnv("WARCRY_BASE_URL", "https://eternalwarcry.com"),
		ScrapeRatePerSec: getEnvFloat("SCRAPE_RATE_PER_SEC", 2),
		RarityTablePath:  getEnv("RARITY_TABLE_PATH", ""),
		CacheSize:        getEnvInt("VALUE_CACHE_SIZE", 256),
		CacheTTL:         getEnvDuration("VALUE_CACHE_TTL", 10*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
