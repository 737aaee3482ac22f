package sse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
	"portfolio_backend/internal/feature/instruments/usecase"
	"portfolio_backend/internal/platform/externalapi/sse/dto"
	"portfolio_backend/internal/platform/externalapi/vendorjson"
	platformhttp "portfolio_backend/internal/platform/http"
)

// Source names registered for the SSE listings.
const (
	SourceStock = "SSE_STOCK"
	SourceFund  = "SSE_FUND"
	SourceBond  = "SSE_BOND"
)

// Extractor は上交所の一覧 (株式 / ファンド / 債券) を取得する Extractor 実装です。
type Extractor struct {
	cfg      Config
	client   *platformhttp.Client
	source   string
	market   string
	listing  string   // equity, fund or all
	prefixes []string // 空でなければコード接頭辞で絞り込む
}

var _ usecase.Extractor = (*Extractor)(nil)

// NewEquityExtractor は上交所A株一覧の Extractor を生成します。
func NewEquityExtractor(cfg Config, client *platformhttp.Client) *Extractor {
	return &Extractor{cfg: cfg, client: client, source: SourceStock, market: entity.MarketSSE, listing: "equity"}
}

// NewFundExtractor は上交所上場ファンド一覧の Extractor を生成します。
func NewFundExtractor(cfg Config, client *platformhttp.Client) *Extractor {
	return &Extractor{cfg: cfg, client: client, source: SourceFund, market: entity.MarketSSEFund, listing: "fund"}
}

// NewBondExtractor は全銘柄一覧から債券コードの接頭辞で絞り込む Extractor を生成します。
func NewBondExtractor(cfg Config, client *platformhttp.Client, prefixes []string) *Extractor {
	return &Extractor{
		cfg: cfg, client: client, source: SourceBond, market: entity.MarketSSEBond,
		listing: "all", prefixes: prefixes,
	}
}

func (e *Extractor) SourceName() string { return e.source }

// Fetch は一覧を取得し、位置指定の行を RawRecord に変換します。
func (e *Extractor) Fetch(ctx context.Context) ([]entity.RawRecord, error) {
	if e.listing == "all" && len(e.prefixes) == 0 {
		return nil, errors.New("sse bond extractor: no code prefixes configured")
	}

	q := url.Values{}
	q.Set("select", dto.ListFields)
	q.Set("order", "")
	q.Set("begin", "0")
	q.Set("end", strconv.Itoa(e.cfg.PageSize))
	u := fmt.Sprintf("%s/v1/sh1/list/exchange/%s?%s", e.cfg.BaseURL, e.listing, q.Encode())

	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	h.Set("Referer", e.cfg.Referer)

	res, err := e.client.Get(ctx, u, h)
	if err != nil {
		return nil, err
	}
	body, err := vendorjson.Body(e.source, res)
	if err != nil {
		return nil, err
	}

	var list dto.ListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, domain.NewVendorFormatError(e.source, err)
	}
	if list.List == nil {
		return nil, domain.NewVendorFormatError(e.source, errors.New("list is missing"))
	}

	out := make([]entity.RawRecord, 0, len(list.List))
	for i, raw := range list.List {
		var row dto.Row
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, domain.NewVendorFormatError(e.source, fmt.Errorf("row %d: %w", i, err))
		}
		code := row.Code.String()
		if !e.keep(code) {
			continue
		}
		rec := entity.RawRecord{
			Symbol:  code,
			Name:    row.Name.String(),
			Market:  e.market,
			Country: vendorjson.Str("China"),
		}
		rec.LastPrice = vendorjson.Float(&rec, "last", row.Last)
		rec.Change = vendorjson.Float(&rec, "change", row.Change)
		rec.ChangePercent = vendorjson.Float(&rec, "chg_rate", row.ChgRate)
		rec.Volume = vendorjson.Float(&rec, "volume", row.Volume)
		out = append(out, rec)
	}
	slog.Info("fetched sse listing", "source", e.source, "rows", len(list.List), "kept", len(out))
	return out, nil
}

func (e *Extractor) keep(code string) bool {
	if len(e.prefixes) == 0 {
		return true
	}
	for _, p := range e.prefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}
