package bosera

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
	"portfolio_backend/internal/feature/instruments/usecase"
	"portfolio_backend/internal/platform/externalapi/bosera/dto"
	"portfolio_backend/internal/platform/externalapi/vendorjson"
	platformhttp "portfolio_backend/internal/platform/http"
	"portfolio_backend/internal/shared/numparse"
)

var fundListRe = regexp.MustCompile(`(?s)window\.fundListJson\s*=\s*(\[.*?\]);`)

// Extractor は博時基金のファンドページに埋め込まれた一覧を取得する Extractor 実装です。
type Extractor struct {
	cfg    Config
	client *platformhttp.Client
}

var _ usecase.Extractor = (*Extractor)(nil)

// NewExtractor は新しい Extractor を生成します。
func NewExtractor(cfg Config, client *platformhttp.Client) *Extractor {
	return &Extractor{cfg: cfg, client: client}
}

func (e *Extractor) SourceName() string { return entity.MarketBosera }

// Fetch はファンドページの HTML から fundListJson を抜き出し RawRecord に変換します。
func (e *Extractor) Fetch(ctx context.Context) ([]entity.RawRecord, error) {
	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0")

	res, err := e.client.Get(ctx, e.cfg.BaseURL+"/fund/index.html", h)
	if err != nil {
		return nil, err
	}
	page, err := vendorjson.Body(entity.MarketBosera, res)
	if err != nil {
		return nil, err
	}

	blob, err := vendorjson.Embedded(page, fundListRe)
	if err != nil {
		return nil, domain.NewVendorFormatError(entity.MarketBosera, err)
	}
	var funds []dto.Fund
	if err := json.Unmarshal(blob, &funds); err != nil {
		return nil, domain.NewVendorFormatError(entity.MarketBosera, err)
	}
	slog.Info("extracted fund list", "source", entity.MarketBosera, "funds", len(funds))

	out := make([]entity.RawRecord, 0, len(funds))
	for _, f := range funds {
		out = append(out, toRecord(f))
	}
	return out, nil
}

func toRecord(f dto.Fund) entity.RawRecord {
	rec := entity.RawRecord{
		Symbol: f.FundCode.String(),
		Name:   f.FundName.String(),
		Market: entity.MarketBosera,
		Type:   entity.TypeFund,
	}
	rec.LastPrice = vendorjson.Float(&rec, "netValue", f.NetValue)
	rec.ChangePercent = vendorjson.Float(&rec, "rate", f.Rate)
	rec.NavDate = vendorjson.Date(&rec, "netDate", "2006-01-02", f.NetDate)
	rec.FundType = vendorjson.Str(f.FundTypeShow)
	rec.RiskLevel = vendorjson.Str(f.FundRisk)

	rec.Yield1w = vendorjson.Float(&rec, "week", f.Week)
	rec.Yield1m = vendorjson.Float(&rec, "month", f.Month)
	rec.Yield3m = vendorjson.Float(&rec, "threeMonth", f.ThreeMonth)
	rec.Yield1y = vendorjson.Float(&rec, "year", f.Year)
	rec.Yield6m = numparse.Scale(vendorjson.Float(&rec, "halfYearYield", f.HalfYearYield), 100)
	if rec.Yield6m == nil {
		// 博時は半年リターンを公開しないことがあるため1年で代用する
		rec.Yield6m = rec.Yield1y
	}
	rec.YieldYTD = numparse.Scale(vendorjson.Float(&rec, "thisYearYield", f.ThisYearYield), 100)
	rec.YieldSinceInception = vendorjson.Float(&rec, "total", f.Total)

	nav := f.NetValue.String()
	active := nav != "" && nav != "--"
	rec.IsActive = &active
	return rec
}
