// Package dto defines data transfer objects for the CFETS central parity endpoint.
package dto

import "portfolio_backend/internal/platform/externalapi/vendorjson"

// CCPRResponse is the body of /r/cms/www/chinamoney/data/fx/ccpr.json.
type CCPRResponse struct {
	Head struct {
		RepCode    string `json:"rep_code"`
		RepMessage string `json:"rep_message"`
	} `json:"head"`
	Data struct {
		LastDate string `json:"lastDate"` // "2026-02-06 9:15"
	} `json:"data"`
	Records []Record `json:"records"`
}

// Record is one currency pair of the parity table.
type Record struct {
	VrtCode      string          `json:"vrtCode"`
	Price        vendorjson.Text `json:"price"`
	VrtName      string          `json:"vrtName"`
	VrtEName     string          `json:"vrtEName"` // "USD/CNY", "100JPY/CNY", "CNY/MYR"
	ForeignCName string          `json:"foreignCName"`
}
