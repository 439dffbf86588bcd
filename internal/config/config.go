package config

import (
	"os"
	"strconv"
)

// Config holds every process-wide setting. It is loaded once in main and
// injected into each component at construction so clients can be pointed at
// fake endpoints in tests.
type Config struct {
	Port string

	// Plate lookup provider
	PlacasAPIURL   string
	PlacasAPIToken string

	// SQLite store
	SQLitePath string

	// Marketplace scraping
	MarketplaceURL string
	ScraperBrowser bool

	// "release" silences verbose error payloads and scraper diagnostics
	GinMode string
}

// Load reads configuration from the environment. Callers are expected to have
// loaded .env beforehand (godotenv in main).
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "3000"),
		PlacasAPIURL:   getEnv("PLACAS_API_URL", "https://wdapi2.com.br"),
		PlacasAPIToken: os.Getenv("PLACAS_API_TOKEN"),
		SQLitePath:     getEnv("SQLITE_PATH", "data/consultas.db"),
		MarketplaceURL: getEnv("MARKETPLACE_URL", "https://www.icarros.com.br/comprar"),
		ScraperBrowser: getBool("SCRAPER_BROWSER", false),
		GinMode:        os.Getenv("GIN_MODE"),
	}
}

// IsRelease reports whether the process runs in production mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
