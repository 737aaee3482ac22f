// Package binance extracts USDT spot tickers from the Binance public REST API.
package binance

import "os"

const (
	defaultBaseURL        = "https://api.binance.com"
	defaultMinQuoteVolume = 10000
)

// Config holds configuration for the Binance client.
type Config struct {
	BaseURL        string  // Base URL for the API (e.g., "https://api.binance.com")
	MinQuoteVolume float64 // 24h quote volume (USDT) a pair needs to be listed in full syncs
}

// LoadConfig loads Binance configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:        os.Getenv("BINANCE_BASE_URL"),
		MinQuoteVolume: defaultMinQuoteVolume,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return cfg
}
