// Package dto defines the fund entries embedded in the E Fund product page.
package dto

import "portfolio_backend/internal/platform/externalapi/vendorjson"

// Fund is one element of __FUND_SUPER_MARKET_DATA__. Yields are percent.
type Fund struct {
	FundCode        vendorjson.Text `json:"fundcode"`
	FundName        vendorjson.Text `json:"fundname"`
	NetValue        vendorjson.Text `json:"netvalue"`
	Rzd             vendorjson.Text `json:"rzd"` // 日騰落率
	FundType        vendorjson.Text `json:"fundType"`
	TDate           vendorjson.Text `json:"tdate"`     // YYYYMMDD
	SetupDate       vendorjson.Text `json:"setupdate"` // YYYY-MM-DD
	Properties      Properties      `json:"properties"`
	ManagerName     vendorjson.Text `json:"managerName"`
	Qrnh            vendorjson.Text `json:"qrnh"` // 七日年化
	LastMonthIncome vendorjson.Text `json:"lastMonthIncome"`
	LastYearIncome  vendorjson.Text `json:"lastYearIncome"`
	ThisYearIncome  vendorjson.Text `json:"thisYearIncome"`
	SinceIncome     vendorjson.Text `json:"sinceIncome"`
	State           vendorjson.Text `json:"state"`
}

// Properties holds the nested fund attributes.
type Properties struct {
	RiskLevel vendorjson.Text `json:"riskLevel"`
}
