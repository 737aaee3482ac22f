// Package chinamoney fetches the CNY central parity table published by CFETS (www.chinamoney.com.cn).
package chinamoney

import (
	"os"
	"strings"
)

const defaultBaseURL = "https://www.chinamoney.com.cn"

// Config holds configuration for the ChinaMoney feed.
type Config struct {
	BaseURL               string   // Base URL of the site
	HundredUnitCurrencies []string // currencies quoted per 100 units even when the pair name omits the prefix
}

// LoadConfig loads ChinaMoney configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:               os.Getenv("CHINAMONEY_BASE_URL"),
		HundredUnitCurrencies: []string{"JPY"},
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if v := os.Getenv("CHINAMONEY_HUNDRED_UNIT_CURRENCIES"); v != "" {
		cfg.HundredUnitCurrencies = strings.Split(v, ",")
	}
	return cfg
}
