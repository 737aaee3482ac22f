// Package entity defines the domain models for the instruments feature.
package entity

import "time"

// Instrument types.
const (
	TypeStock  = "STOCK"
	TypeETF    = "ETF"
	TypeFund   = "FUND"
	TypeBond   = "BOND"
	TypeCrypto = "CRYPTO"
)

// Market codes written on instrument rows.
const (
	MarketNASDAQ  = "NASDAQ"
	MarketNYSE    = "NYSE"
	MarketAMEX    = "AMEX"
	MarketUSETF   = "US_ETF"
	MarketSSE     = "SSE"
	MarketSSEFund = "SSE_FUND"
	MarketSSEBond = "SSE_BOND"
	MarketNFFund  = "NF_FUND"
	MarketBosera  = "BOSERA"
	MarketEFunds  = "EFUNDS"
	MarketBinance = "BINANCE"
)

// Instrument is the canonical tradable-asset record. (Symbol, Market) identifies one row.
type Instrument struct {
	Symbol   string // Ticker or fund code (e.g., "AAPL", "600519", "BTC")
	Name     string
	Market   string // Venue code (e.g., "NASDAQ", "SSE", "BOSERA")
	Type     string // STOCK, ETF, FUND, BOND or CRYPTO
	Currency string // ISO 4217 code of LastPrice

	LastPrice     float64
	Change        float64
	ChangePercent float64 // percent, e.g. -0.35 means -0.35%
	Volume        float64
	MarketCap     float64

	Sector   *string
	Industry *string
	Country  *string

	// Fund-specific fields. Yields are percentages.
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

	IsActive   bool
	LastSyncAt time.Time
}

// Key returns the unique identity of the instrument.
func (i Instrument) Key() InstrumentKey {
	return InstrumentKey{Symbol: i.Symbol, Market: i.Market}
}

// InstrumentKey identifies one instrument row.
type InstrumentKey struct {
	Symbol string
	Market string
}

// String renders the key as "SYMBOL|MARKET".
func (k InstrumentKey) String() string {
	return k.Symbol + "|" + k.Market
}

// SearchQuery filters instrument search.
type SearchQuery struct {
	Keyword string // matched against symbol and name
	Market  string // optional exact market
	Limit   int
}

// MarketCount is the number of active instruments on one market.
type MarketCount struct {
	Market string
	Count  int64
}

// Stats summarises the instrument table.
type Stats struct {
	TotalActive int64
	ByMarket    []MarketCount
}
