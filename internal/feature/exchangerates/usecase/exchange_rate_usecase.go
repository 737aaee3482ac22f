package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/exchangerates/domain/entity"
)

var (
	// ErrRateNotFound は指定された通貨ペアのレートが保存されていない場合に返されます。
	ErrRateNotFound = errors.New("exchange rate not found")

	// ErrInvalidRange は履歴の開始日が終了日より後の場合に返されます。
	ErrInvalidRange = errors.New("start date is after end date")
)

// reciprocalPlaces is the precision of 1/rate.
const reciprocalPlaces = 10

// supportedCurrencies are the currencies with a published CNY central parity.
var supportedCurrencies = []string{
	"USD", "EUR", "JPY", "HKD", "GBP", "AUD", "NZD", "SGD", "CHF", "CAD",
	"MOP", "MYR", "RUB", "ZAR", "KRW", "AED", "SAR", "HUF", "PLN", "DKK",
	"SEK", "NOK", "TRY", "MXN", "THB",
}

// SyncResult は1回の為替同期の結果です。
type SyncResult struct {
	Date    time.Time
	Success int
	Failed  int
}

// ExchangeRateUsecase は為替レートの同期と参照を提供します。
type ExchangeRateUsecase struct {
	feed     RateFeed
	repo     ExchangeRateRepository
	defaults map[string]float64 // "USD_CNY" 形式のキー
}

// NewExchangeRateUsecase は新しい ExchangeRateUsecase を作成します。
// defaults は保存済みレートが無い場合の既定レート表です。
func NewExchangeRateUsecase(feed RateFeed, repo ExchangeRateRepository, defaults map[string]float64) *ExchangeRateUsecase {
	return &ExchangeRateUsecase{feed: feed, repo: repo, defaults: defaults}
}

// Sync は最新の中間レートを取得し、各通貨について外貨→CNY と逆方向 CNY→外貨 を保存します。
// 行単位の保存失敗は Failed に数え、処理を継続します。
func (u *ExchangeRateUsecase) Sync(ctx context.Context) (SyncResult, error) {
	sheet, err := u.feed.Fetch(ctx)
	if err != nil {
		slog.Error("exchange rate fetch failed", "error", err)
		return SyncResult{}, fmt.Errorf("fetch rate sheet: %w", err)
	}

	res := SyncResult{Date: sheet.Date, Failed: sheet.Skipped}
	for _, q := range sheet.Quotes {
		if !q.Rate.IsPositive() {
			res.Failed += 2
			slog.Warn("skipping non-positive rate", "currency", q.Currency, "rate", q.Rate.String())
			continue
		}
		pair := []entity.ExchangeRate{
			{FromCurrency: q.Currency, ToCurrency: entity.BaseCurrency, Rate: q.Rate, Date: sheet.Date, Source: sheet.Source},
			{FromCurrency: entity.BaseCurrency, ToCurrency: q.Currency, Rate: Reciprocal(q.Rate), Date: sheet.Date, Source: sheet.Source},
		}
		for _, r := range pair {
			if err := u.repo.Upsert(ctx, r); err != nil {
				res.Failed++
				slog.Error("failed to save exchange rate", "from", r.FromCurrency, "to", r.ToCurrency, "error", err)
				continue
			}
			res.Success++
		}
	}

	slog.Info("exchange rates synced", "date", sheet.Date.Format(time.DateOnly), "success", res.Success, "failed", res.Failed)
	return res, nil
}

// LatestRate は通貨ペアの最新レートを返します。同一通貨は保存先を参照せず 1 を返します。
func (u *ExchangeRateUsecase) LatestRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from, to = normalize(from), normalize(to)
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	r, err := u.repo.Latest(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return r.Rate, nil
}

// RateOn は指定日のレートを返します。
func (u *ExchangeRateUsecase) RateOn(ctx context.Context, from, to string, day time.Time) (decimal.Decimal, error) {
	from, to = normalize(from), normalize(to)
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	r, err := u.repo.On(ctx, from, to, truncateDay(day))
	if err != nil {
		return decimal.Zero, err
	}
	return r.Rate, nil
}

// History は [start, end] のレートを日付の昇順で返します。
func (u *ExchangeRateUsecase) History(ctx context.Context, from, to string, start, end time.Time) ([]entity.ExchangeRate, error) {
	start, end = truncateDay(start), truncateDay(end)
	if start.After(end) {
		return nil, ErrInvalidRange
	}
	return u.repo.History(ctx, normalize(from), normalize(to), start, end)
}

// RateOrDefault は最新レートを返し、無ければ既定レート表、それも無ければ 1 を返します。
func (u *ExchangeRateUsecase) RateOrDefault(ctx context.Context, from, to string) decimal.Decimal {
	r, err := u.LatestRate(ctx, from, to)
	if err == nil {
		return r
	}
	if !errors.Is(err, ErrRateNotFound) {
		slog.Warn("exchange rate lookup failed, using default", "from", from, "to", to, "error", err)
	}
	if d, ok := u.defaults[normalize(from)+"_"+normalize(to)]; ok {
		return decimal.NewFromFloat(d)
	}
	return decimal.NewFromInt(1)
}

// Convert は amount を from から to に換算します。
func (u *ExchangeRateUsecase) Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal {
	return amount.Mul(u.RateOrDefault(ctx, from, to))
}

// Stats は保存済みレートの件数・通貨・最新日付を返します。
func (u *ExchangeRateUsecase) Stats(ctx context.Context) (entity.RateStats, error) {
	return u.repo.Stats(ctx)
}

// SupportedCurrencies は中間レートが公表される通貨の一覧を返します。
func (u *ExchangeRateUsecase) SupportedCurrencies() []string {
	return append([]string(nil), supportedCurrencies...)
}

// Reciprocal returns 1/rate rounded to ten decimal places.
func Reciprocal(rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).DivRound(rate, reciprocalPlaces)
}

func normalize(ccy string) string { return strings.ToUpper(strings.TrimSpace(ccy)) }

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
