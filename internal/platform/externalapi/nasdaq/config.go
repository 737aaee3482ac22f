// Package nasdaq extracts US listings from the NASDAQ screener API.
package nasdaq

import "os"

const defaultBaseURL = "https://api.nasdaq.com"

// Config holds configuration for the NASDAQ screener client.
type Config struct {
	BaseURL   string // Base URL for the API (e.g., "https://api.nasdaq.com")
	UserAgent string // browser User-Agent; the screener rejects default Go agents
}

// LoadConfig loads NASDAQ configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:   os.Getenv("NASDAQ_BASE_URL"),
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return cfg
}
