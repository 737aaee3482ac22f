package http

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Transport: 共有の ProxyTransport（nil の場合は新しい Transport を作成）
//   - Client.Timeout: リクエスト全体のタイムアウト（呼び出し元から渡される）
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にカスタムクライアントを使用すること
func NewHTTPClient(timeout time.Duration, rt http.RoundTripper) *http.Client {
	if rt == nil {
		rt = newTransport(http.ProxyFromEnvironment)
	}
	return &http.Client{Timeout: timeout, Transport: rt}
}

// newTransport は接続の安定性とリソース管理のために明示的に設定した Transport を返します。
//
//   - Dialer.Timeout: TCP接続タイムアウト（デフォルトより短い）
//   - Dialer.KeepAlive: 再利用可能なTCP接続の維持期間
//   - MaxIdleConns: 最大アイドル接続数
//   - IdleConnTimeout: アイドル接続の維持期間
//   - TLSHandshakeTimeout: HTTPSハンドシェイクの最大時間
func newTransport(proxy func(*http.Request) (*url.URL, error)) *http.Transport {
	return &http.Transport{
		Proxy: proxy,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
}

// ProxyTransport is an http.RoundTripper shared by every vendor client.
// The underlying transport is built once, on first use, so all extractors
// reuse the same pooled connections to the upstream proxy.
type ProxyTransport struct {
	proxyURL string

	once sync.Once
	rt   *http.Transport
	err  error
}

var _ http.RoundTripper = (*ProxyTransport)(nil)

// NewProxyTransport returns a lazily initialised transport. An empty proxyURL
// falls back to the HTTP_PROXY / HTTPS_PROXY environment variables.
func NewProxyTransport(proxyURL string) *ProxyTransport {
	return &ProxyTransport{proxyURL: proxyURL}
}

// Enabled reports whether an explicit upstream proxy is configured.
func (p *ProxyTransport) Enabled() bool {
	return p.proxyURL != ""
}

// RoundTrip implements http.RoundTripper.
func (p *ProxyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt, err := p.transport()
	if err != nil {
		return nil, err
	}
	return rt.RoundTrip(req)
}

// CloseIdleConnections lets http.Client.CloseIdleConnections reach the shared transport.
func (p *ProxyTransport) CloseIdleConnections() {
	if rt, err := p.transport(); err == nil {
		rt.CloseIdleConnections()
	}
}

func (p *ProxyTransport) transport() (*http.Transport, error) {
	p.once.Do(func() {
		if p.proxyURL == "" {
			p.rt = newTransport(http.ProxyFromEnvironment)
			return
		}
		u, err := url.Parse(p.proxyURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			p.err = fmt.Errorf("invalid proxy url %q", p.proxyURL)
			return
		}
		p.rt = newTransport(http.ProxyURL(u))
	})
	return p.rt, p.err
}
