package di

import (
	"log/slog"

	platformhttp "portfolio_backend/internal/platform/http"
)

// newProxy は全ベンダーで共有するプロキシ Transport を作成します。
func newProxy(proxyURL string) *platformhttp.ProxyTransport {
	slog.Info("vendor requests go through proxy")
	return platformhttp.NewProxyTransport(proxyURL)
}
