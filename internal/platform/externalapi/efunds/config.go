// Package efunds extracts the fund supermarket data embedded in the E Fund (易方达基金) product page.
package efunds

import "os"

const defaultBaseURL = "https://www.efunds.com.cn"

// Config holds configuration for the E Fund scraper.
type Config struct {
	BaseURL string // Base URL of the site (e.g., "https://www.efunds.com.cn")
}

// LoadConfig loads E Fund configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{BaseURL: os.Getenv("EFUNDS_BASE_URL")}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return cfg
}
