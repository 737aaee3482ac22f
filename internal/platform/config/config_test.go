package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestLoad_Defaults は環境変数未設定時にデフォルト値が使われることを検証します。
func TestLoad_Defaults(t *testing.T) {
	// t.Setenv を使うため並列実行しない
	for _, k := range []string{
		"SERVER_PORT", "HTTP_MAX_RETRIES", "HTTP_INITIAL_DELAY", "HTTP_MAX_DELAY",
		"HTTP_BACKOFF_MULTIPLIER", "HTTP_TIMEOUT", "PROXY_URL", "FORCE_SYNC_ON_STARTUP",
		"SSE_BOND_PREFIXES", "BINANCE_MIN_QUOTE_VOLUME",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 3, cfg.HTTP.MaxRetries)
	assert.Equal(t, time.Second, cfg.HTTP.InitialDelay)
	assert.Equal(t, 10*time.Second, cfg.HTTP.MaxDelay)
	assert.Equal(t, 2.0, cfg.HTTP.BackoffMultiplier)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Empty(t, cfg.ProxyURL)
	assert.False(t, cfg.ForceSyncOnStartup)
	assert.Equal(t, 10000.0, cfg.Sync.BinanceMinQuoteVolume)
	assert.Contains(t, cfg.Sync.SSEBondPrefixes, "113")
	assert.Equal(t, 7.2, cfg.DefaultExchangeRates["USD_CNY"])
	assert.Equal(t, 0.139, cfg.DefaultExchangeRates["CNY_USD"])
}

// TestLoad_Overrides は環境変数の値が設定に反映されることを検証します。
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("HTTP_MAX_RETRIES", "5")
	t.Setenv("HTTP_INITIAL_DELAY", "250ms")
	t.Setenv("HTTP_BACKOFF_MULTIPLIER", "1.5")
	t.Setenv("PROXY_URL", "http://127.0.0.1:7890")
	t.Setenv("FORCE_SYNC_ON_STARTUP", "true")
	t.Setenv("SSE_BOND_PREFIXES", " 019, ,113 ")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 5, cfg.HTTP.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.HTTP.InitialDelay)
	assert.Equal(t, 1.5, cfg.HTTP.BackoffMultiplier)
	assert.Equal(t, "http://127.0.0.1:7890", cfg.ProxyURL)
	assert.True(t, cfg.ForceSyncOnStartup)
	assert.Equal(t, []string{"019", "113"}, cfg.Sync.SSEBondPrefixes)
}

// TestLoad_InvalidNumbersFallBack は不正な数値がデフォルト値にフォールバックすることを検証します。
func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("HTTP_MAX_RETRIES", "three")
	t.Setenv("HTTP_TIMEOUT", "soon")
	t.Setenv("FORCE_SYNC_ON_STARTUP", "yes")

	cfg := Load()

	assert.Equal(t, 3, cfg.HTTP.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.False(t, cfg.ForceSyncOnStartup)
}
