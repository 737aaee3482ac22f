// Package nffund extracts the fund supermarket list of China Southern Asset Management (南方基金).
package nffund

import "os"

const defaultBaseURL = "https://www.nffund.com"

// Config holds configuration for the NF fund client.
type Config struct {
	BaseURL string // Base URL for the API (e.g., "https://www.nffund.com")
}

// LoadConfig loads NF fund configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{BaseURL: os.Getenv("NFFUND_BASE_URL")}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return cfg
}
