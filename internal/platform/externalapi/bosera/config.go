// Package bosera extracts the fund list embedded in the Bosera Funds (博时基金) fund page.
package bosera

import "os"

const defaultBaseURL = "https://www.bosera.com"

// Config holds configuration for the Bosera scraper.
type Config struct {
	BaseURL string // Base URL of the site (e.g., "https://www.bosera.com")
}

// LoadConfig loads Bosera configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{BaseURL: os.Getenv("BOSERA_BASE_URL")}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return cfg
}
