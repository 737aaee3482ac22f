package usecase

import (
	"strings"
	"time"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
)

// Column names of the instruments table that Normalize may report as updated.
const (
	ColName                = "name"
	ColType                = "type"
	ColCurrency            = "currency"
	ColLastPrice           = "last_price"
	ColChange              = "change"
	ColChangePercent       = "change_percent"
	ColVolume              = "volume"
	ColMarketCap           = "market_cap"
	ColSector              = "sector"
	ColIndustry            = "industry"
	ColCountry             = "country"
	ColFundType            = "fund_type"
	ColRiskLevel           = "risk_level"
	ColManagerName         = "manager_name"
	ColYield7d             = "yield_7d"
	ColYield1w             = "yield_1w"
	ColYield1m             = "yield_1m"
	ColYield3m             = "yield_3m"
	ColYield6m             = "yield_6m"
	ColYield1y             = "yield_1y"
	ColYieldYTD            = "yield_ytd"
	ColYieldSinceInception = "yield_since_inception"
	ColNavDate             = "nav_date"
	ColSetupDate           = "setup_date"
	ColIsActive            = "is_active"
	ColLastSyncAt          = "last_sync_at"
)

// marketDefaults は市場ごとの既定の種別と通貨です。
var marketDefaults = map[string]struct{ Type, Currency string }{
	entity.MarketNASDAQ:  {entity.TypeStock, "USD"},
	entity.MarketNYSE:    {entity.TypeStock, "USD"},
	entity.MarketAMEX:    {entity.TypeStock, "USD"},
	entity.MarketUSETF:   {entity.TypeETF, "USD"},
	entity.MarketSSE:     {entity.TypeStock, "CNY"},
	entity.MarketSSEFund: {entity.TypeFund, "CNY"},
	entity.MarketSSEBond: {entity.TypeBond, "CNY"},
	entity.MarketNFFund:  {entity.TypeFund, "CNY"},
	entity.MarketBosera:  {entity.TypeFund, "CNY"},
	entity.MarketEFunds:  {entity.TypeFund, "CNY"},
	entity.MarketBinance: {entity.TypeCrypto, "USD"},
}

// Normalize は生レコードを正規の Instrument に変換し、ベンダーが報告した列の一覧を返します。
// 報告されなかった任意項目は挿入時のみ既定値になり、更新時は既存値を保持します。
// 抽出時に解析できなかった項目がある場合は *domain.ValidationError を返します。
func Normalize(rec entity.RawRecord, now time.Time) (entity.Instrument, []string, error) {
	inst := entity.Instrument{
		Symbol:     strings.TrimSpace(rec.Symbol),
		Name:       strings.TrimSpace(rec.Name),
		Market:     strings.ToUpper(strings.TrimSpace(rec.Market)),
		Type:       strings.ToUpper(strings.TrimSpace(rec.Type)),
		Currency:   strings.ToUpper(strings.TrimSpace(rec.Currency)),
		IsActive:   true,
		LastSyncAt: now,
	}
	if len(rec.Defects) > 0 {
		return inst, nil, &domain.ValidationError{Symbol: inst.Symbol, Market: inst.Market, Problems: rec.Defects}
	}

	if d, ok := marketDefaults[inst.Market]; ok {
		if inst.Type == "" {
			inst.Type = d.Type
		}
		if inst.Currency == "" {
			inst.Currency = d.Currency
		}
	}
	if rec.IsActive != nil {
		inst.IsActive = *rec.IsActive
	}

	cols := []string{ColName, ColType, ColCurrency, ColIsActive, ColLastSyncAt}

	setFloat := func(dst *float64, src *float64, col string) {
		if src != nil {
			*dst = *src
			cols = append(cols, col)
		}
	}
	setFloat(&inst.LastPrice, rec.LastPrice, ColLastPrice)
	setFloat(&inst.Change, rec.Change, ColChange)
	setFloat(&inst.ChangePercent, rec.ChangePercent, ColChangePercent)
	setFloat(&inst.Volume, rec.Volume, ColVolume)
	setFloat(&inst.MarketCap, rec.MarketCap, ColMarketCap)

	inst.Sector = optString(rec.Sector, ColSector, &cols)
	inst.Industry = optString(rec.Industry, ColIndustry, &cols)
	inst.Country = optString(rec.Country, ColCountry, &cols)
	inst.FundType = optString(rec.FundType, ColFundType, &cols)
	inst.RiskLevel = optString(rec.RiskLevel, ColRiskLevel, &cols)
	inst.ManagerName = optString(rec.ManagerName, ColManagerName, &cols)

	inst.Yield7d = optValue(rec.Yield7d, ColYield7d, &cols)
	inst.Yield1w = optValue(rec.Yield1w, ColYield1w, &cols)
	inst.Yield1m = optValue(rec.Yield1m, ColYield1m, &cols)
	inst.Yield3m = optValue(rec.Yield3m, ColYield3m, &cols)
	inst.Yield6m = optValue(rec.Yield6m, ColYield6m, &cols)
	inst.Yield1y = optValue(rec.Yield1y, ColYield1y, &cols)
	inst.YieldYTD = optValue(rec.YieldYTD, ColYieldYTD, &cols)
	inst.YieldSinceInception = optValue(rec.YieldSinceInception, ColYieldSinceInception, &cols)
	inst.NavDate = optValue(rec.NavDate, ColNavDate, &cols)
	inst.SetupDate = optValue(rec.SetupDate, ColSetupDate, &cols)

	return inst, cols, nil
}

// optString trims v, drops blanks and records col when a value remains.
func optString(v *string, col string, cols *[]string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	*cols = append(*cols, col)
	return &s
}

func optValue[T any](v *T, col string, cols *[]string) *T {
	if v == nil {
		return nil
	}
	*cols = append(*cols, col)
	c := *v
	return &c
}
