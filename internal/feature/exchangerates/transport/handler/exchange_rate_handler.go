// Package handler はexchangeratesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/exchangerates/domain/entity"
	"portfolio_backend/internal/feature/exchangerates/transport/http/dto"
	"portfolio_backend/internal/feature/exchangerates/usecase"
)

// ExchangeRateUsecase は為替レートのユースケースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type ExchangeRateUsecase interface {
	Sync(ctx context.Context) (usecase.SyncResult, error)
	LatestRate(ctx context.Context, from, to string) (decimal.Decimal, error)
	RateOn(ctx context.Context, from, to string, day time.Time) (decimal.Decimal, error)
	History(ctx context.Context, from, to string, start, end time.Time) ([]entity.ExchangeRate, error)
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal
	Stats(ctx context.Context) (entity.RateStats, error)
	SupportedCurrencies() []string
}

// Launcher はジョブをリクエストの外で実行します。同名ジョブが実行中なら false を返します。
type Launcher interface {
	Start(name string, fn func(ctx context.Context) error) bool
}

// ExchangeRateHandler は為替レートのHTTPリクエストを処理します。
type ExchangeRateHandler struct {
	uc   ExchangeRateUsecase
	jobs Launcher
}

// NewExchangeRateHandler は新しい ExchangeRateHandler を作成します。
func NewExchangeRateHandler(uc ExchangeRateUsecase, jobs Launcher) *ExchangeRateHandler {
	return &ExchangeRateHandler{uc: uc, jobs: jobs}
}

// Sync は中間レートの同期をバックグラウンドで開始します。
//
// POST /exchange-rates/sync
func (h *ExchangeRateHandler) Sync(c *gin.Context) {
	started := h.jobs.Start("exchange-rates:sync", func(ctx context.Context) error {
		_, err := h.uc.Sync(ctx)
		return err
	})
	if !started {
		c.JSON(http.StatusConflict, gin.H{"error": "exchange rate sync already running"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "exchange rate sync started"})
}

// Latest は通貨ペアの最新レート、または date 指定時はその日のレートを返します。
//
// GET /exchange-rates/latest?from=USD&to=CNY[&date=2026-02-06]
func (h *ExchangeRateHandler) Latest(c *gin.Context) {
	from, to, ok := pair(c)
	if !ok {
		return
	}

	var (
		rate decimal.Decimal
		err  error
		day  string
	)
	if raw := c.Query("date"); raw != "" {
		d, perr := time.Parse("2006-01-02", raw)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		rate, err = h.uc.RateOn(c.Request.Context(), from, to, d)
		day = raw
	} else {
		rate, err = h.uc.LatestRate(c.Request.Context(), from, to)
	}
	if errors.Is(err, usecase.ErrRateNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.RateResponse{From: from, To: to, Rate: rate, Date: day})
}

// History は期間内のレートを日付の昇順で返します。end 省略時は今日、start 省略時は end の30日前です。
//
// GET /exchange-rates/history?from=USD&to=CNY&start=2026-01-01&end=2026-01-31
func (h *ExchangeRateHandler) History(c *gin.Context) {
	from, to, ok := pair(c)
	if !ok {
		return
	}

	end := time.Now().UTC()
	if raw := c.Query("end"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
			return
		}
		end = d
	}
	start := end.AddDate(0, 0, -30)
	if raw := c.Query("start"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
			return
		}
		start = d
	}

	rates, err := h.uc.History(c.Request.Context(), from, to, start, end)
	if errors.Is(err, usecase.ErrInvalidRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.HistoryItem, 0, len(rates))
	for _, r := range rates {
		out = append(out, dto.NewHistoryItem(r))
	}
	c.JSON(http.StatusOK, out)
}

// Convert は金額を換算します。レートが無い場合は既定レート表を使います。
//
// GET /exchange-rates/convert?amount=100&from=USD&to=CNY
func (h *ExchangeRateHandler) Convert(c *gin.Context) {
	from, to, ok := pair(c)
	if !ok {
		return
	}
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a number"})
		return
	}
	result := h.uc.Convert(c.Request.Context(), amount, from, to)
	c.JSON(http.StatusOK, dto.ConvertResponse{From: from, To: to, Amount: amount, Result: result})
}

// Stats は保存済みレートの統計を返します。
//
// GET /exchange-rates/stats
func (h *ExchangeRateHandler) Stats(c *gin.Context) {
	stats, err := h.uc.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.NewStatsResponse(stats))
}

// Currencies は中間レートが公表される通貨の一覧を返します。
//
// GET /exchange-rates/currencies
func (h *ExchangeRateHandler) Currencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"base": entity.BaseCurrency, "currencies": h.uc.SupportedCurrencies()})
}

// pair は from/to クエリを読み、欠けていれば 400 を書き込みます。
func pair(c *gin.Context) (string, string, bool) {
	from := strings.ToUpper(strings.TrimSpace(c.Query("from")))
	to := strings.ToUpper(strings.TrimSpace(c.Query("to")))
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return "", "", false
	}
	return from, to, true
}
