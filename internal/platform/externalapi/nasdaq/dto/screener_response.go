// Package dto defines data transfer objects for the NASDAQ screener responses.
package dto

import "portfolio_backend/internal/platform/externalapi/vendorjson"

// StockRow is one row of the stock screener at $.data.rows.
type StockRow struct {
	Symbol    vendorjson.Text `json:"symbol"`
	Name      vendorjson.Text `json:"name"`
	LastSale  vendorjson.Text `json:"lastsale"`
	NetChange vendorjson.Text `json:"netchange"`
	PctChange vendorjson.Text `json:"pctchange"`
	Volume    vendorjson.Text `json:"volume"`
	MarketCap vendorjson.Text `json:"marketCap"`
	Country   vendorjson.Text `json:"country"`
	Sector    vendorjson.Text `json:"sector"`
	Industry  vendorjson.Text `json:"industry"`
}

// ETFRow is one row of the ETF screener at $.data.data.rows.
type ETFRow struct {
	Symbol           vendorjson.Text `json:"symbol"`
	CompanyName      vendorjson.Text `json:"companyName"`
	LastSalePrice    vendorjson.Text `json:"lastSalePrice"`
	NetChange        vendorjson.Text `json:"netChange"`
	PercentageChange vendorjson.Text `json:"percentageChange"`
}
