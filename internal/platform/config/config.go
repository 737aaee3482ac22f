// Package config loads process-wide configuration from the environment and an optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持します。
type Config struct {
	Server ServerConfig
	HTTP   HTTPConfig
	Sync   SyncConfig
	Log    LogConfig

	// ProxyURL は外部データソースへのリクエストを中継する上流プロキシです。空の場合は直接接続します。
	ProxyURL string
	// ForceSyncOnStartup が true の場合、起動時に全銘柄を削除してから全ソースを再同期します。
	ForceSyncOnStartup bool
	// DefaultExchangeRates は保存済みレートが存在しない場合のフォールバック表です（キー: "USD_CNY"）。
	DefaultExchangeRates map[string]float64
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// HTTPConfig holds retry and timeout settings for outbound vendor calls.
type HTTPConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
	Timeout           time.Duration
}

// SyncConfig holds pipeline tuning knobs.
type SyncConfig struct {
	Timezone              string
	BinanceMinQuoteVolume float64
	SSEBondPrefixes       []string
}

// LogConfig holds slog handler settings.
type LogConfig struct {
	Level  string
	Format string
}

// defaultBondPrefixes are SSE code prefixes for treasury, local government,
// corporate, convertible and exchangeable bond series.
var defaultBondPrefixes = []string{
	"010", "019", "020", "110", "113", "118", "122", "136", "143", "155", "163", "175", "188",
}

// Load reads configuration from environment variables and .env file
func Load() *Config {
	// .env が無い環境（本番など）ではエラーを無視する
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		HTTP: HTTPConfig{
			MaxRetries:        getEnvInt("HTTP_MAX_RETRIES", 3),
			InitialDelay:      getEnvDuration("HTTP_INITIAL_DELAY", time.Second),
			MaxDelay:          getEnvDuration("HTTP_MAX_DELAY", 10*time.Second),
			BackoffMultiplier: getEnvFloat("HTTP_BACKOFF_MULTIPLIER", 2),
			Timeout:           getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		},
		Sync: SyncConfig{
			Timezone:              getEnv("SYNC_TIMEZONE", "Asia/Shanghai"),
			BinanceMinQuoteVolume: getEnvFloat("BINANCE_MIN_QUOTE_VOLUME", 10000),
			SSEBondPrefixes:       getEnvList("SSE_BOND_PREFIXES", defaultBondPrefixes),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		ProxyURL:           os.Getenv("PROXY_URL"),
		ForceSyncOnStartup: os.Getenv("FORCE_SYNC_ON_STARTUP") == "true",
		DefaultExchangeRates: map[string]float64{
			"USD_CNY": 7.2,
			"CNY_USD": 0.139,
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key))); err == nil {
		return v
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
