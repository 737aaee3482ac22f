package nffund

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
	platformhttp "portfolio_backend/internal/platform/http"
)

func newExtractor(t *testing.T, body string) (*Extractor, func()) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/nfwebApi/fund/supermarket", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte(body))
	}))
	client := platformhttp.NewClient(server.Client(), platformhttp.RetryConfig{Timeout: 5 * time.Second})
	return NewExtractor(Config{BaseURL: server.URL}, client), server.Close
}

func TestExtractor_Fetch(t *testing.T) {
	t.Parallel()

	ext, done := newExtractor(t, `{"code":"ETS-5BP00000","message":"ok","data":{"g_index_allrelist":[
		{"fundcode":"202301","fundname":"南方现金增利货币A","fdate":"20260205","nav":"1.0000","upRatio":"0.00",
		 "fmqwsl":"0.4123","recentOneMonth":"0.12","recentThreeMonth":"0.37","recentHalfYear":"0.75",
		 "recentOneYear":"1.52","thisYear":"0.14","since":"45.30",
		 "webFirstCategorys":"173C6C94CE037c8c7b796c99203456b4","fundManagerName":"张三","status":1},
		{"fundcode":"160105","fundname":"南方积极配置","fdate":"","nav":"2.1530","upRatio":"-1.21",
		 "fmqwsl":"","webFirstCategorys":"unknown","fundManagerName":"","status":0}
	]}}`)
	defer done()

	recs, err := ext.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, entity.MarketNFFund, ext.SourceName())

	money := recs[0]
	assert.Equal(t, "202301", money.Symbol)
	assert.Equal(t, entity.TypeFund, money.Type)
	assert.InDelta(t, 1.504895, *money.Yield7d, 1e-9)
	assert.Equal(t, 1.52, *money.Yield1y)
	assert.Equal(t, 45.30, *money.YieldSinceInception)
	assert.Equal(t, "债券型", *money.FundType)
	assert.Equal(t, "张三", *money.ManagerName)
	assert.Equal(t, time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), *money.NavDate)
	assert.True(t, *money.IsActive)
	assert.Empty(t, money.Defects)

	mixed := recs[1]
	assert.Nil(t, mixed.Yield7d)
	assert.Nil(t, mixed.NavDate)
	assert.Nil(t, mixed.ManagerName)
	assert.Equal(t, -1.21, *mixed.ChangePercent)
	assert.Equal(t, "混合型", *mixed.FundType)
	assert.False(t, *mixed.IsActive)
}

func TestExtractor_Fetch_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantFormat bool
	}{
		{"api error code", `{"code":"ETS-5BP99999","message":"system busy"}`, false},
		{"missing list", `{"code":"ETS-5BP00000","data":{}}`, true},
		{"not json", `<html></html>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ext, done := newExtractor(t, tt.body)
			defer done()

			_, err := ext.Fetch(context.Background())

			require.Error(t, err)
			if tt.wantFormat {
				assert.ErrorIs(t, err, domain.ErrVendorFormat)
			} else {
				assert.NotErrorIs(t, err, domain.ErrVendorFormat)
			}
		})
	}
}
