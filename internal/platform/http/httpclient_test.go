package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_DefaultTransport(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient(10*time.Second, nil)

	assert.Equal(t, 10*time.Second, c.Timeout)
	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 100, tr.MaxIdleConns)
}

func TestNewHTTPClient_SharesProxyTransport(t *testing.T) {
	t.Parallel()

	pt := NewProxyTransport("http://127.0.0.1:7890")
	a := NewHTTPClient(time.Second, pt)
	b := NewHTTPClient(time.Second, pt)

	assert.Same(t, a.Transport, b.Transport)
}

// TestProxyTransport_BuiltOnce は並行呼び出しでも内部 Transport が一度だけ生成されることを検証します。
func TestProxyTransport_BuiltOnce(t *testing.T) {
	t.Parallel()

	pt := NewProxyTransport("http://proxy.local:3128")

	var wg sync.WaitGroup
	got := make([]*http.Transport, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rt, err := pt.transport()
			assert.NoError(t, err)
			got[i] = rt
		}(i)
	}
	wg.Wait()

	for _, rt := range got {
		assert.Same(t, got[0], rt)
	}

	req := httptest.NewRequest(http.MethodGet, "https://api.binance.com/api/v3/ticker/24hr", nil)
	u, err := got[0].Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, &url.URL{Scheme: "http", Host: "proxy.local:3128"}, u)
	assert.True(t, pt.Enabled())
}

func TestProxyTransport_InvalidURL(t *testing.T) {
	t.Parallel()

	pt := NewProxyTransport("not a proxy")
	req := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	_, err := pt.RoundTrip(req)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid proxy url")
}

func TestProxyTransport_RoutesRequests(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	pt := NewProxyTransport("")
	c := NewHTTPClient(time.Second, pt)

	res, err := c.Get(server.URL)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.False(t, pt.Enabled())
}
