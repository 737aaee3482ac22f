// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"portfolio_backend/internal/feature/instruments/usecase"
	"portfolio_backend/internal/platform/config"
	"portfolio_backend/internal/platform/externalapi/binance"
	"portfolio_backend/internal/platform/externalapi/bosera"
	"portfolio_backend/internal/platform/externalapi/chinamoney"
	"portfolio_backend/internal/platform/externalapi/efunds"
	"portfolio_backend/internal/platform/externalapi/nasdaq"
	"portfolio_backend/internal/platform/externalapi/nffund"
	"portfolio_backend/internal/platform/externalapi/sse"
	platformhttp "portfolio_backend/internal/platform/http"
	"portfolio_backend/internal/shared/ratelimiter"
)

// binanceRequestsPerSecond bounds per-symbol ticker requests.
const binanceRequestsPerSecond = 10

// VendorConfigs は外部データソースごとの設定です。
type VendorConfigs struct {
	Nasdaq     nasdaq.Config
	SSE        sse.Config
	NFFund     nffund.Config
	Bosera     bosera.Config
	EFunds     efunds.Config
	Binance    binance.Config
	ChinaMoney chinamoney.Config
}

// LoadVendorConfigs は各ベンダーの LoadConfig にアプリ設定の上書きを適用します。
func LoadVendorConfigs(cfg *config.Config) VendorConfigs {
	v := VendorConfigs{
		Nasdaq:     nasdaq.LoadConfig(),
		SSE:        sse.LoadConfig(),
		NFFund:     nffund.LoadConfig(),
		Bosera:     bosera.LoadConfig(),
		EFunds:     efunds.LoadConfig(),
		Binance:    binance.LoadConfig(),
		ChinaMoney: chinamoney.LoadConfig(),
	}
	if cfg.Sync.BinanceMinQuoteVolume > 0 {
		v.Binance.MinQuoteVolume = cfg.Sync.BinanceMinQuoteVolume
	}
	return v
}

// NewVendorClient は全ベンダーで共有するリトライ付きクライアントを作成します。
func NewVendorClient(cfg *config.Config, proxy *platformhttp.ProxyTransport) *platformhttp.Client {
	if proxy == nil {
		proxy = platformhttp.NewProxyTransport("")
	}
	httpClient := platformhttp.NewHTTPClient(0, proxy)
	return platformhttp.NewClient(httpClient, platformhttp.RetryConfig{
		MaxRetries:        cfg.HTTP.MaxRetries,
		InitialDelay:      cfg.HTTP.InitialDelay,
		MaxDelay:          cfg.HTTP.MaxDelay,
		BackoffMultiplier: cfg.HTTP.BackoffMultiplier,
		Timeout:           cfg.HTTP.Timeout,
	})
}

// NewSourceRegistry は全 Extractor を登録したレジストリと、暗号資産の臨時取得に使う Binance Extractor を返します。
func NewSourceRegistry(v VendorConfigs, client *platformhttp.Client, bondPrefixes []string) (*usecase.Registry, *binance.Extractor) {
	crypto := binance.NewExtractor(v.Binance, client, ratelimiter.NewRateLimiter(binanceRequestsPerSecond, time.Second))

	extractors := make([]usecase.Extractor, 0, 11)
	for _, exchange := range nasdaq.Exchanges {
		extractors = append(extractors, nasdaq.NewStockExtractor(v.Nasdaq, client, exchange))
	}
	extractors = append(extractors,
		nasdaq.NewETFExtractor(v.Nasdaq, client),
		sse.NewEquityExtractor(v.SSE, client),
		sse.NewFundExtractor(v.SSE, client),
		sse.NewBondExtractor(v.SSE, client, bondPrefixes),
		nffund.NewExtractor(v.NFFund, client),
		bosera.NewExtractor(v.Bosera, client),
		efunds.NewExtractor(v.EFunds, client),
		crypto,
	)
	return usecase.NewRegistry(extractors...), crypto
}
