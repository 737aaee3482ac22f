package entity

import "time"

// RawRecord is one vendor row after extraction. Units are already canonical
// (prices in quote currency, yields in percent); nil means the vendor did not
// report the field. Defects lists fields the extractor could not parse.
type RawRecord struct {
	Symbol   string
	Name     string
	Market   string
	Type     string
	Currency string

	LastPrice     *float64
	Change        *float64
	ChangePercent *float64
	Volume        *float64
	MarketCap     *float64

	Sector   *string
	Industry *string
	Country  *string

	FundType            *string
	RiskLevel           *string
	ManagerName         *string
	Yield7d             *float64
	Yield1w             *float64
	Yield1m             *float64
	Yield3m             *float64
	Yield6m             *float64
	Yield1y             *float64
	YieldYTD            *float64
	YieldSinceInception *float64
	NavDate             *time.Time
	SetupDate           *time.Time

	IsActive *bool

	Defects []string
}

// AddDefect records a field that failed to parse.
func (r *RawRecord) AddDefect(field string, err error) {
	r.Defects = append(r.Defects, field+": "+err.Error())
}
