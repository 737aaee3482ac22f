package chinamoney

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/exchangerates/domain/entity"
	"portfolio_backend/internal/feature/exchangerates/usecase"
	"portfolio_backend/internal/platform/externalapi/chinamoney/dto"
	"portfolio_backend/internal/platform/externalapi/vendorjson"
	platformhttp "portfolio_backend/internal/platform/http"
)

// Source is the label stored on every rate from this feed.
const Source = "CHINAMONEY"

var hundred = decimal.NewFromInt(100)

// Feed は中国外汇交易中心の人民元中間レートを取得する RateFeed 実装です。
type Feed struct {
	cfg     Config
	client  *platformhttp.Client
	hundred map[string]struct{}
}

var _ usecase.RateFeed = (*Feed)(nil)

// NewFeed は新しい Feed を生成します。
func NewFeed(cfg Config, client *platformhttp.Client) *Feed {
	h := make(map[string]struct{}, len(cfg.HundredUnitCurrencies))
	for _, c := range cfg.HundredUnitCurrencies {
		h[strings.ToUpper(strings.TrimSpace(c))] = struct{}{}
	}
	return &Feed{cfg: cfg, client: client, hundred: h}
}

// Fetch は中間レート表を取得し、各通貨を 1 単位あたりの CNY 価格に揃えて返します。
func (f *Feed) Fetch(ctx context.Context) (entity.RateSheet, error) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	res, err := f.client.Do(ctx, http.MethodPost, f.cfg.BaseURL+"/r/cms/www/chinamoney/data/fx/ccpr.json", platformhttp.RequestOptions{Header: h})
	if err != nil {
		return entity.RateSheet{}, err
	}
	body, err := vendorjson.Body(Source, res)
	if err != nil {
		return entity.RateSheet{}, err
	}

	var resp dto.CCPRResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return entity.RateSheet{}, fmt.Errorf("chinamoney: decode: %w", err)
	}
	if resp.Head.RepCode != "200" {
		return entity.RateSheet{}, fmt.Errorf("chinamoney api error %s: %s", resp.Head.RepCode, resp.Head.RepMessage)
	}
	day, err := parseDay(resp.Data.LastDate)
	if err != nil {
		return entity.RateSheet{}, fmt.Errorf("chinamoney: %w", err)
	}
	if len(resp.Records) == 0 {
		return entity.RateSheet{}, errors.New("chinamoney: no records")
	}

	sheet := entity.RateSheet{Date: day, Source: Source}
	for _, r := range resp.Records {
		q, err := f.quote(r)
		if err != nil {
			sheet.Skipped++
			slog.Warn("skipping central parity record", "pair", r.VrtEName, "price", r.Price.String(), "error", err)
			continue
		}
		sheet.Quotes = append(sheet.Quotes, q)
	}
	slog.Info("fetched central parity", "date", day.Format(time.DateOnly), "quotes", len(sheet.Quotes), "skipped", sheet.Skipped)
	return sheet, nil
}

// quote turns one record into the CNY price of a single foreign unit.
// "100JPY/CNY" and currencies in HundredUnitCurrencies are divided by their unit;
// "CNY/MYR" is quoted the other way round and is inverted.
func (f *Feed) quote(r dto.Record) (entity.RateQuote, error) {
	price, err := decimal.NewFromString(r.Price.String())
	if err != nil {
		return entity.RateQuote{}, fmt.Errorf("invalid price: %w", err)
	}
	if !price.IsPositive() {
		return entity.RateQuote{}, errors.New("price is not positive")
	}

	base, quote, ok := strings.Cut(strings.ReplaceAll(r.VrtEName, " ", ""), "/")
	if !ok {
		// 通貨ペア名が無い場合は foreignCName を外貨コードとみなす
		base, quote = r.ForeignCName, entity.BaseCurrency
	}
	baseUnits, baseCcy := splitUnits(base)
	quoteUnits, quoteCcy := splitUnits(quote)

	switch {
	case quoteCcy == entity.BaseCurrency && baseCcy != entity.BaseCurrency:
		units := baseUnits
		if _, ok := f.hundred[baseCcy]; ok && units == 1 {
			units = 100
		}
		rate := price
		if units != 1 {
			rate = price.Div(decimal.NewFromInt(units))
		}
		return entity.RateQuote{Currency: baseCcy, Name: r.VrtName, Rate: rate}, nil

	case baseCcy == entity.BaseCurrency && quoteCcy != entity.BaseCurrency:
		// price 外貨 = baseUnits CNY
		perUnit := price.Div(decimal.NewFromInt(quoteUnits))
		rate := decimal.NewFromInt(baseUnits).DivRound(perUnit, 10)
		return entity.RateQuote{Currency: quoteCcy, Name: r.VrtName, Rate: rate}, nil
	}
	return entity.RateQuote{}, fmt.Errorf("unsupported pair %q", r.VrtEName)
}

// splitUnits splits "100JPY" into (100, "JPY"). A missing prefix means one unit.
func splitUnits(s string) (int64, string) {
	s = strings.ToUpper(strings.TrimSpace(s))
	i := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if i <= 0 {
		return 1, s
	}
	n, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil || n <= 0 {
		return 1, s[i:]
	}
	return n, s[i:]
}

// parseDay parses "2026-02-06 9:15" or "2026-02-06" into the UTC calendar day.
func parseDay(s string) (time.Time, error) {
	datePart, _, _ := strings.Cut(strings.TrimSpace(s), " ")
	t, err := time.Parse(time.DateOnly, datePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid lastDate %q", s)
	}
	return t, nil
}
