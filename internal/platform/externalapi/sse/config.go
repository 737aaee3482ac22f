// Package sse extracts Shanghai Stock Exchange listings (equity, funds, bonds) from the SSE quote service.
package sse

import "os"

const defaultBaseURL = "https://yunhq.sse.com.cn:32042"

// Config holds configuration for the SSE quote client.
type Config struct {
	BaseURL  string // Base URL for the quote service
	Referer  string // the service requires a Referer from www.sse.com.cn
	PageSize int    // rows requested per listing
}

// LoadConfig loads SSE configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:  os.Getenv("SSE_BASE_URL"),
		Referer:  "https://www.sse.com.cn/",
		PageSize: 10000,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return cfg
}
