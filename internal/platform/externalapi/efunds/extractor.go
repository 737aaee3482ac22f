package efunds

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
	"portfolio_backend/internal/feature/instruments/usecase"
	"portfolio_backend/internal/platform/externalapi/efunds/dto"
	"portfolio_backend/internal/platform/externalapi/vendorjson"
	platformhttp "portfolio_backend/internal/platform/http"
)

var superMarketRe = regexp.MustCompile(`(?s)var __FUND_SUPER_MARKET_DATA__\s*=\s*(\[.*?\]);`)

// Extractor は易方達の商品ページに埋め込まれたファンド一覧を取得する Extractor 実装です。
type Extractor struct {
	cfg    Config
	client *platformhttp.Client
}

var _ usecase.Extractor = (*Extractor)(nil)

// NewExtractor は新しい Extractor を生成します。
func NewExtractor(cfg Config, client *platformhttp.Client) *Extractor {
	return &Extractor{cfg: cfg, client: client}
}

func (e *Extractor) SourceName() string { return entity.MarketEFunds }

// Fetch は商品ページから __FUND_SUPER_MARKET_DATA__ を抜き出し RawRecord に変換します。
func (e *Extractor) Fetch(ctx context.Context) ([]entity.RawRecord, error) {
	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0")

	res, err := e.client.Get(ctx, e.cfg.BaseURL+"/lm/jjcp/", h)
	if err != nil {
		return nil, err
	}
	page, err := vendorjson.Body(entity.MarketEFunds, res)
	if err != nil {
		return nil, err
	}

	blob, err := vendorjson.Embedded(page, superMarketRe)
	if err != nil {
		return nil, domain.NewVendorFormatError(entity.MarketEFunds, err)
	}
	var funds []dto.Fund
	if err := json.Unmarshal(blob, &funds); err != nil {
		return nil, domain.NewVendorFormatError(entity.MarketEFunds, err)
	}
	slog.Info("extracted fund list", "source", entity.MarketEFunds, "funds", len(funds))

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
		Market: entity.MarketEFunds,
		Type:   entity.TypeFund,
	}
	rec.LastPrice = vendorjson.Float(&rec, "netvalue", f.NetValue)
	rec.ChangePercent = vendorjson.Float(&rec, "rzd", f.Rzd)
	rec.NavDate = vendorjson.Date(&rec, "tdate", dateLayout(f.TDate), f.TDate)
	rec.SetupDate = vendorjson.Date(&rec, "setupdate", dateLayout(f.SetupDate), f.SetupDate)
	rec.FundType = vendorjson.Str(f.FundType)
	rec.RiskLevel = vendorjson.Str(f.Properties.RiskLevel)
	rec.ManagerName = vendorjson.Str(f.ManagerName)

	rec.Yield7d = vendorjson.Float(&rec, "qrnh", f.Qrnh)
	rec.Yield1m = vendorjson.Float(&rec, "lastMonthIncome", f.LastMonthIncome)
	rec.Yield1y = vendorjson.Float(&rec, "lastYearIncome", f.LastYearIncome)
	rec.YieldYTD = vendorjson.Float(&rec, "thisYearIncome", f.ThisYearIncome)
	rec.YieldSinceInception = vendorjson.Float(&rec, "sinceIncome", f.SinceIncome)

	active := f.State.String() == "0"
	rec.IsActive = &active
	return rec
}

// dateLayout picks the layout for YYYYMMDD or YYYY-MM-DD; both appear on the page.
func dateLayout(s vendorjson.Text) string {
	if len(s.String()) == 8 {
		return "20060102"
	}
	return "2006-01-02"
}
