package chinamoney

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_backend/internal/platform/externalapi/chinamoney/dto"
	platformhttp "portfolio_backend/internal/platform/http"
)

const ccprBody = `{
	"head": {"rep_code": "200", "rep_message": "success"},
	"data": {"lastDate": "2026-02-06 9:15"},
	"records": [
		{"vrtCode": "USD/CNY", "price": "7.1052", "vrtName": "美元/人民币", "vrtEName": "USD/CNY", "foreignCName": "USD"},
		{"vrtCode": "100JPY/CNY", "price": "4.7329", "vrtName": "100日元/人民币", "vrtEName": "100JPY/CNY", "foreignCName": "JPY"},
		{"vrtCode": "CNY/MYR", "price": "0.6250", "vrtName": "人民币/林吉特", "vrtEName": "CNY/MYR", "foreignCName": "MYR"},
		{"vrtCode": "EUR/CNY", "price": "--", "vrtName": "欧元/人民币", "vrtEName": "EUR/CNY", "foreignCName": "EUR"}
	]
}`

func newFeed(t *testing.T, body string) (*Feed, func()) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/r/cms/www/chinamoney/data/fx/ccpr.json", r.URL.Path)
		_, _ = w.Write([]byte(body))
	}))
	client := platformhttp.NewClient(server.Client(), platformhttp.RetryConfig{Timeout: 5 * time.Second})
	return NewFeed(Config{BaseURL: server.URL, HundredUnitCurrencies: []string{"JPY"}}, client), server.Close
}

func TestFeed_Fetch(t *testing.T) {
	t.Parallel()

	feed, done := newFeed(t, ccprBody)
	defer done()

	sheet, err := feed.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC), sheet.Date)
	assert.Equal(t, Source, sheet.Source)
	assert.Equal(t, 1, sheet.Skipped)
	require.Len(t, sheet.Quotes, 3)

	assert.Equal(t, "USD", sheet.Quotes[0].Currency)
	assert.True(t, sheet.Quotes[0].Rate.Equal(decimal.RequireFromString("7.1052")))

	assert.Equal(t, "JPY", sheet.Quotes[1].Currency)
	assert.True(t, sheet.Quotes[1].Rate.Equal(decimal.RequireFromString("0.047329")))

	assert.Equal(t, "MYR", sheet.Quotes[2].Currency)
	assert.True(t, sheet.Quotes[2].Rate.Equal(decimal.RequireFromString("1.6")), "CNY/MYR is inverted")
}

func TestFeed_Quote_HundredUnitFlag(t *testing.T) {
	t.Parallel()

	feed := NewFeed(Config{HundredUnitCurrencies: []string{" jpy "}}, nil)

	tests := []struct {
		name   string
		record dto.Record
		want   string
	}{
		{"flagged currency without prefix", dto.Record{Price: "1500", VrtEName: "JPY/CNY"}, "15"},
		{"unflagged currency", dto.Record{Price: "7.1", VrtEName: "USD/CNY"}, "7.1"},
		{"explicit prefix", dto.Record{Price: "53.2", VrtEName: "100THB/CNY"}, "0.532"},
		{"foreignCName fallback", dto.Record{Price: "0.91", ForeignCName: "HKD"}, "0.91"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q, err := feed.quote(tt.record)

			require.NoError(t, err)
			assert.True(t, q.Rate.Equal(decimal.RequireFromString(tt.want)), "got %s", q.Rate)
		})
	}
}

func TestFeed_Quote_Rejects(t *testing.T) {
	t.Parallel()

	feed := NewFeed(Config{}, nil)

	for _, r := range []dto.Record{
		{Price: "0", VrtEName: "USD/CNY"},
		{Price: "-1", VrtEName: "USD/CNY"},
		{Price: "abc", VrtEName: "USD/CNY"},
		{Price: "1.2", VrtEName: "USD/EUR"},
	} {
		_, err := feed.quote(r)
		assert.Error(t, err, "record %+v", r)
	}
}

func TestFeed_Fetch_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"rep code", `{"head":{"rep_code":"500","rep_message":"busy"}}`},
		{"bad date", `{"head":{"rep_code":"200"},"data":{"lastDate":"yesterday"},"records":[]}`},
		{"no records", `{"head":{"rep_code":"200"},"data":{"lastDate":"2026-02-06"},"records":[]}`},
		{"not json", `<html/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			feed, done := newFeed(t, tt.body)
			defer done()

			_, err := feed.Fetch(context.Background())
			assert.Error(t, err)
		})
	}
}
