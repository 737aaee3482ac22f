// Package dto defines data transfer objects for the Binance REST API.
package dto

import "portfolio_backend/internal/platform/externalapi/vendorjson"

// Ticker24h is one element of /api/v3/ticker/24hr.
type Ticker24h struct {
	Symbol             string          `json:"symbol"`
	PriceChange        vendorjson.Text `json:"priceChange"`
	PriceChangePercent vendorjson.Text `json:"priceChangePercent"`
	LastPrice          vendorjson.Text `json:"lastPrice"`
	Volume             vendorjson.Text `json:"volume"`
	QuoteVolume        vendorjson.Text `json:"quoteVolume"`
}
