// Package dto はexchangeratesフィーチャーのHTTPレスポンスDTOを定義します。
package dto

import (
	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/exchangerates/domain/entity"
)

// RateResponse は通貨ペア1件のレートです。Rate は精度を保つため文字列で返します。
type RateResponse struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
	Date string          `json:"date,omitempty"` // YYYY-MM-DD
}

// HistoryItem は履歴の1日分です。
type HistoryItem struct {
	Date   string          `json:"date"`
	Rate   decimal.Decimal `json:"rate"`
	Source string          `json:"source"`
}

// NewHistoryItem はエンティティを履歴DTOに変換します。
func NewHistoryItem(r entity.ExchangeRate) HistoryItem {
	return HistoryItem{Date: r.Date.Format("2006-01-02"), Rate: r.Rate, Source: r.Source}
}

// ConvertResponse は換算結果です。
type ConvertResponse struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
	Result decimal.Decimal `json:"result"`
}

// StatsResponse は保存済みレートの統計です。
type StatsResponse struct {
	TotalRecords int64    `json:"totalRecords"`
	Currencies   []string `json:"currencies"`
	LatestDate   *string  `json:"latestDate"`
}

// NewStatsResponse はエンティティを統計DTOに変換します。
func NewStatsResponse(s entity.RateStats) StatsResponse {
	out := StatsResponse{TotalRecords: s.TotalRecords, Currencies: s.Currencies}
	if out.Currencies == nil {
		out.Currencies = []string{}
	}
	if s.LatestDate != nil {
		d := s.LatestDate.Format("2006-01-02")
		out.LatestDate = &d
	}
	return out
}
