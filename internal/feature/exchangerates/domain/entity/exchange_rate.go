package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the currency every central parity is quoted against.
const BaseCurrency = "CNY"

// ExchangeRate is the rate of one currency pair on one calendar day:
// amountTo = amountFrom * Rate. (FromCurrency, ToCurrency, Date) identifies one row.
type ExchangeRate struct {
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal
	Date         time.Time // UTC midnight
	Source       string
}

// RateQuote is the CNY price of one unit of Currency.
type RateQuote struct {
	Currency string
	Name     string
	Rate     decimal.Decimal
}

// RateSheet is one day's central parity table as published by a feed.
type RateSheet struct {
	Date    time.Time
	Source  string
	Quotes  []RateQuote
	Skipped int // records the feed could not interpret
}

// RateStats summarises the stored rates.
type RateStats struct {
	TotalRecords int64
	Currencies   []string
	LatestDate   *time.Time
}
