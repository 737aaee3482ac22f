// Package dto はinstrumentsフィーチャーのHTTPリクエスト/レスポンスDTOを定義します。
package dto

import (
	"time"

	"portfolio_backend/internal/feature/instruments/domain/entity"
)

// InstrumentResponse は銘柄1件のレスポンスDTOです。
type InstrumentResponse struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Market        string  `json:"market"`
	Type          string  `json:"type"`
	Currency      string  `json:"currency"`
	LastPrice     float64 `json:"lastPrice"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        float64 `json:"volume"`
	MarketCap     float64 `json:"marketCap"`

	Sector   *string `json:"sector,omitempty"`
	Industry *string `json:"industry,omitempty"`
	Country  *string `json:"country,omitempty"`

	FundType            *string  `json:"fundType,omitempty"`
	RiskLevel           *string  `json:"riskLevel,omitempty"`
	ManagerName         *string  `json:"managerName,omitempty"`
	Yield7d             *float64 `json:"yield7d,omitempty"`
	Yield1w             *float64 `json:"yield1w,omitempty"`
	Yield1m             *float64 `json:"yield1m,omitempty"`
	Yield3m             *float64 `json:"yield3m,omitempty"`
	Yield6m             *float64 `json:"yield6m,omitempty"`
	Yield1y             *float64 `json:"yield1y,omitempty"`
	YieldYTD            *float64 `json:"yieldYtd,omitempty"`
	YieldSinceInception *float64 `json:"yieldSinceInception,omitempty"`
	NavDate             *string  `json:"navDate,omitempty"`   // YYYY-MM-DD
	SetupDate           *string  `json:"setupDate,omitempty"` // YYYY-MM-DD

	IsActive   bool      `json:"isActive"`
	LastSyncAt time.Time `json:"lastSyncAt"`
}

// NewInstrumentResponse はエンティティをレスポンスDTOに変換します。
func NewInstrumentResponse(i entity.Instrument) InstrumentResponse {
	return InstrumentResponse{
		Symbol:              i.Symbol,
		Name:                i.Name,
		Market:              i.Market,
		Type:                i.Type,
		Currency:            i.Currency,
		LastPrice:           i.LastPrice,
		Change:              i.Change,
		ChangePercent:       i.ChangePercent,
		Volume:              i.Volume,
		MarketCap:           i.MarketCap,
		Sector:              i.Sector,
		Industry:            i.Industry,
		Country:             i.Country,
		FundType:            i.FundType,
		RiskLevel:           i.RiskLevel,
		ManagerName:         i.ManagerName,
		Yield7d:             i.Yield7d,
		Yield1w:             i.Yield1w,
		Yield1m:             i.Yield1m,
		Yield3m:             i.Yield3m,
		Yield6m:             i.Yield6m,
		Yield1y:             i.Yield1y,
		YieldYTD:            i.YieldYTD,
		YieldSinceInception: i.YieldSinceInception,
		NavDate:             formatDay(i.NavDate),
		SetupDate:           formatDay(i.SetupDate),
		IsActive:            i.IsActive,
		LastSyncAt:          i.LastSyncAt,
	}
}

func formatDay(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

// MarketCountItem は市場ごとの件数です。
type MarketCountItem struct {
	Market string `json:"market"`
	Count  int64  `json:"count"`
}

// StatsResponse は銘柄統計のレスポンスDTOです。
type StatsResponse struct {
	TotalActive int64             `json:"totalActive"`
	ByMarket    []MarketCountItem `json:"byMarket"`
}
