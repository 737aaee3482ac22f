// Package dto defines data transfer objects for the NF fund supermarket API.
package dto

import "portfolio_backend/internal/platform/externalapi/vendorjson"

// SuccessCode is the envelope code of a successful response.
const SuccessCode = "ETS-5BP00000"

// Envelope is the outer response of /nfwebApi/fund/supermarket.
type Envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Fund is one entry of data.g_index_allrelist.
type Fund struct {
	FundCode          vendorjson.Text `json:"fundcode"`
	FundName          vendorjson.Text `json:"fundname"`
	FDate             vendorjson.Text `json:"fdate"` // YYYYMMDD
	Nav               vendorjson.Text `json:"nav"`
	UpRatio           vendorjson.Text `json:"upRatio"`
	Fmqwsl            vendorjson.Text `json:"fmqwsl"` // 万份收益
	RecentOneMonth    vendorjson.Text `json:"recentOneMonth"`
	RecentThreeMonth  vendorjson.Text `json:"recentThreeMonth"`
	RecentHalfYear    vendorjson.Text `json:"recentHalfYear"`
	RecentOneYear     vendorjson.Text `json:"recentOneYear"`
	ThisYear          vendorjson.Text `json:"thisYear"`
	Since             vendorjson.Text `json:"since"`
	WebFirstCategorys vendorjson.Text `json:"webFirstCategorys"`
	FundManagerName   vendorjson.Text `json:"fundManagerName"`
	Status            vendorjson.Text `json:"status"`
}
