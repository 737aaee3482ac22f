package nasdaq

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
	"portfolio_backend/internal/feature/instruments/usecase"
	"portfolio_backend/internal/platform/externalapi/nasdaq/dto"
	"portfolio_backend/internal/platform/externalapi/vendorjson"
	platformhttp "portfolio_backend/internal/platform/http"
)

// Exchanges lists the exchanges served by the stock screener.
var Exchanges = []string{entity.MarketNASDAQ, entity.MarketNYSE, entity.MarketAMEX}

// StockExtractor は1取引所分の株式一覧を NASDAQ スクリーナーから取得する Extractor 実装です。
type StockExtractor struct {
	cfg      Config
	client   *platformhttp.Client
	exchange string
}

var _ usecase.Extractor = (*StockExtractor)(nil)

// NewStockExtractor は exchange (NASDAQ / NYSE / AMEX) 用の StockExtractor を生成します。
func NewStockExtractor(cfg Config, client *platformhttp.Client, exchange string) *StockExtractor {
	return &StockExtractor{cfg: cfg, client: client, exchange: strings.ToUpper(exchange)}
}

func (e *StockExtractor) SourceName() string { return e.exchange }

// Fetch はスクリーナーの全行を取得し RawRecord に変換します。
func (e *StockExtractor) Fetch(ctx context.Context) ([]entity.RawRecord, error) {
	q := url.Values{}
	q.Set("download", "true")
	q.Set("exchange", e.exchange)
	u := fmt.Sprintf("%s/api/screener/stocks?%s", e.cfg.BaseURL, q.Encode())

	body, err := get(ctx, e.client, e.cfg, e.exchange, u)
	if err != nil {
		return nil, err
	}

	var rows []dto.StockRow
	if err := vendorjson.Select(body, "$.data.rows", &rows); err != nil {
		return nil, domain.NewVendorFormatError(e.exchange, err)
	}
	slog.Info("fetched screener rows", "source", e.exchange, "rows", len(rows))

	out := make([]entity.RawRecord, 0, len(rows))
	for _, r := range rows {
		rec := entity.RawRecord{
			Symbol: r.Symbol.String(),
			Name:   r.Name.String(),
			Market: e.exchange,
			Type:   entity.TypeStock,
		}
		rec.LastPrice = vendorjson.Float(&rec, "lastsale", r.LastSale)
		rec.Change = vendorjson.Float(&rec, "netchange", r.NetChange)
		rec.ChangePercent = vendorjson.Float(&rec, "pctchange", r.PctChange)
		rec.Volume = vendorjson.Float(&rec, "volume", r.Volume)
		rec.MarketCap = vendorjson.Float(&rec, "marketCap", r.MarketCap)
		rec.Country = vendorjson.Str(r.Country)
		rec.Sector = vendorjson.Str(r.Sector)
		rec.Industry = vendorjson.Str(r.Industry)
		out = append(out, rec)
	}
	return out, nil
}

// ETFExtractor は米国 ETF 一覧を取得する Extractor 実装です。
type ETFExtractor struct {
	cfg    Config
	client *platformhttp.Client
}

var _ usecase.Extractor = (*ETFExtractor)(nil)

// NewETFExtractor は新しい ETFExtractor を生成します。
func NewETFExtractor(cfg Config, client *platformhttp.Client) *ETFExtractor {
	return &ETFExtractor{cfg: cfg, client: client}
}

func (e *ETFExtractor) SourceName() string { return entity.MarketUSETF }

// Fetch は ETF スクリーナーの全行を取得します。
func (e *ETFExtractor) Fetch(ctx context.Context) ([]entity.RawRecord, error) {
	u := fmt.Sprintf("%s/api/screener/etf?download=true", e.cfg.BaseURL)

	body, err := get(ctx, e.client, e.cfg, entity.MarketUSETF, u)
	if err != nil {
		return nil, err
	}

	var rows []dto.ETFRow
	if err := vendorjson.Select(body, "$.data.data.rows", &rows); err != nil {
		return nil, domain.NewVendorFormatError(entity.MarketUSETF, err)
	}
	slog.Info("fetched screener rows", "source", entity.MarketUSETF, "rows", len(rows))

	out := make([]entity.RawRecord, 0, len(rows))
	for _, r := range rows {
		rec := entity.RawRecord{
			Symbol: r.Symbol.String(),
			Name:   r.CompanyName.String(),
			Market: entity.MarketUSETF,
			Type:   entity.TypeETF,
		}
		rec.LastPrice = vendorjson.Float(&rec, "lastSalePrice", r.LastSalePrice)
		rec.Change = vendorjson.Float(&rec, "netChange", r.NetChange)
		rec.ChangePercent = vendorjson.Float(&rec, "percentageChange", r.PercentageChange)
		out = append(out, rec)
	}
	return out, nil
}

func get(ctx context.Context, client *platformhttp.Client, cfg Config, source, u string) ([]byte, error) {
	h := http.Header{}
	h.Set("User-Agent", cfg.UserAgent)
	h.Set("Accept", "application/json")

	res, err := client.Get(ctx, u, h)
	if err != nil {
		return nil, err
	}
	return vendorjson.Body(source, res)
}
