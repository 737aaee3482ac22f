package nffund

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
	"portfolio_backend/internal/feature/instruments/usecase"
	"portfolio_backend/internal/platform/externalapi/nffund/dto"
	"portfolio_backend/internal/platform/externalapi/vendorjson"
	platformhttp "portfolio_backend/internal/platform/http"
	"portfolio_backend/internal/shared/numparse"
)

// categories maps webFirstCategorys codes to fund types. Unknown codes fall back to defaultCategory.
var categories = map[string]string{
	"173C6C94CE0608f07e8d831e6f2c99d7": "混合型",
	"173C6C94CE037c8c7b796c99203456b4": "债券型",
}

const defaultCategory = "混合型"

// Extractor は南方基金のファンド一覧を取得する Extractor 実装です。
type Extractor struct {
	cfg    Config
	client *platformhttp.Client
}

var _ usecase.Extractor = (*Extractor)(nil)

// NewExtractor は新しい Extractor を生成します。
func NewExtractor(cfg Config, client *platformhttp.Client) *Extractor {
	return &Extractor{cfg: cfg, client: client}
}

func (e *Extractor) SourceName() string { return entity.MarketNFFund }

// Fetch はファンド一覧 API を POST で呼び出し、全ファンドを RawRecord に変換します。
func (e *Extractor) Fetch(ctx context.Context) ([]entity.RawRecord, error) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("User-Agent", "Mozilla/5.0")

	res, err := e.client.Do(ctx, http.MethodPost, e.cfg.BaseURL+"/nfwebApi/fund/supermarket", platformhttp.RequestOptions{
		Header: h,
		Body:   []byte("{}"),
	})
	if err != nil {
		return nil, err
	}
	body, err := vendorjson.Body(entity.MarketNFFund, res)
	if err != nil {
		return nil, err
	}

	var env dto.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, domain.NewVendorFormatError(entity.MarketNFFund, err)
	}
	if env.Code != dto.SuccessCode {
		return nil, fmt.Errorf("nffund api error %s: %s", env.Code, env.Message)
	}

	var funds []dto.Fund
	if err := vendorjson.Select(body, "$.data.g_index_allrelist", &funds); err != nil {
		return nil, domain.NewVendorFormatError(entity.MarketNFFund, err)
	}
	slog.Info("fetched fund list", "source", entity.MarketNFFund, "funds", len(funds))

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
		Market: entity.MarketNFFund,
		Type:   entity.TypeFund,
	}
	rec.LastPrice = vendorjson.Float(&rec, "nav", f.Nav)
	rec.ChangePercent = vendorjson.Float(&rec, "upRatio", f.UpRatio)
	rec.NavDate = vendorjson.Date(&rec, "fdate", "20060102", f.FDate)

	// 万份収益 → 七日年化 (%)
	rec.Yield7d = numparse.Scale(vendorjson.Float(&rec, "fmqwsl", f.Fmqwsl), 365.0/100)
	rec.Yield1m = vendorjson.Float(&rec, "recentOneMonth", f.RecentOneMonth)
	rec.Yield3m = vendorjson.Float(&rec, "recentThreeMonth", f.RecentThreeMonth)
	rec.Yield6m = vendorjson.Float(&rec, "recentHalfYear", f.RecentHalfYear)
	rec.Yield1y = vendorjson.Float(&rec, "recentOneYear", f.RecentOneYear)
	rec.YieldYTD = vendorjson.Float(&rec, "thisYear", f.ThisYear)
	rec.YieldSinceInception = vendorjson.Float(&rec, "since", f.Since)

	fundType := defaultCategory
	if c, ok := categories[f.WebFirstCategorys.String()]; ok {
		fundType = c
	}
	rec.FundType = &fundType
	rec.ManagerName = vendorjson.Str(f.FundManagerName)

	active := f.Status.String() == "1"
	rec.IsActive = &active
	return rec
}
