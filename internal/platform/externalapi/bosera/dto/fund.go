// Package dto defines the fund entries embedded in the Bosera fund page.
package dto

import "portfolio_backend/internal/platform/externalapi/vendorjson"

// Fund is one element of window.fundListJson.
// *Yield fields are decimal fractions (".0003"); the short names are already percent ("0.03").
type Fund struct {
	FundCode      vendorjson.Text `json:"fundCode"`
	FundName      vendorjson.Text `json:"fundName"`
	NetDate       vendorjson.Text `json:"netDate"` // YYYY-MM-DD
	NetValue      vendorjson.Text `json:"netValue"`
	Rate          vendorjson.Text `json:"rate"`
	FundTypeShow  vendorjson.Text `json:"fundTypeShow"`
	FundRisk      vendorjson.Text `json:"fundRisk"`
	HalfYearYield vendorjson.Text `json:"halfYearYield"`
	ThisYearYield vendorjson.Text `json:"thisYearYield"`
	Week          vendorjson.Text `json:"week"`
	Month         vendorjson.Text `json:"month"`
	ThreeMonth    vendorjson.Text `json:"threeMonth"`
	Year          vendorjson.Text `json:"year"`
	Total         vendorjson.Text `json:"total"`
	FundStatus    vendorjson.Text `json:"fundStatus"`
}
