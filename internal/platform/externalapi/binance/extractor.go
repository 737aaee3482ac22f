package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
	"portfolio_backend/internal/feature/instruments/usecase"
	"portfolio_backend/internal/platform/externalapi/binance/dto"
	"portfolio_backend/internal/platform/externalapi/vendorjson"
	platformhttp "portfolio_backend/internal/platform/http"
	"portfolio_backend/internal/shared/numparse"
	"portfolio_backend/internal/shared/ratelimiter"
)

const quoteAsset = "USDT"

// Source labels per retrieval mode.
const (
	SourceAll      = entity.MarketBinance
	SourceTop      = "BINANCE_TOP"
	SourceSpecific = "BINANCE_SPECIFIC"
)

type modeKind int

const (
	modeAll modeKind = iota
	modeTop
	modeSymbols
)

// Mode selects which tickers an Extractor returns.
type Mode struct {
	kind    modeKind
	n       int
	symbols []string
}

// ModeAll keeps every USDT pair above the configured quote volume.
func ModeAll() Mode { return Mode{kind: modeAll} }

// ModeTop keeps the n USDT pairs with the largest quote volume.
func ModeTop(n int) Mode { return Mode{kind: modeTop, n: n} }

// ModeSymbols fetches the listed base assets one request at a time.
func ModeSymbols(symbols []string) Mode { return Mode{kind: modeSymbols, symbols: symbols} }

// Extractor は Binance の24時間ティッカーから USDT 建て暗号資産を取得する Extractor 実装です。
type Extractor struct {
	cfg     Config
	client  *platformhttp.Client
	limiter ratelimiter.RateLimiterInterface
	mode    Mode
}

var (
	_ usecase.Extractor    = (*Extractor)(nil)
	_ usecase.CryptoSource = (*Extractor)(nil)
)

// NewExtractor は ModeAll の Extractor を生成します。limiter は銘柄指定取得のリクエスト間隔に使います。
func NewExtractor(cfg Config, client *platformhttp.Client, limiter ratelimiter.RateLimiterInterface) *Extractor {
	return &Extractor{cfg: cfg, client: client, limiter: limiter, mode: ModeAll()}
}

// WithMode は mode で動作する Extractor のコピーを返します。
func (e *Extractor) WithMode(mode Mode) *Extractor {
	c := *e
	c.mode = mode
	return &c
}

// TopByVolume implements usecase.CryptoSource.
func (e *Extractor) TopByVolume(n int) usecase.Extractor { return e.WithMode(ModeTop(n)) }

// ForSymbols implements usecase.CryptoSource.
func (e *Extractor) ForSymbols(symbols []string) usecase.Extractor {
	return e.WithMode(ModeSymbols(symbols))
}

func (e *Extractor) SourceName() string {
	switch e.mode.kind {
	case modeTop:
		return SourceTop
	case modeSymbols:
		return SourceSpecific
	default:
		return SourceAll
	}
}

// Fetch はモードに応じてティッカーを取得し RawRecord に変換します。
func (e *Extractor) Fetch(ctx context.Context) ([]entity.RawRecord, error) {
	if e.mode.kind == modeSymbols {
		return e.fetchSymbols(ctx)
	}

	body, err := e.get(ctx, e.cfg.BaseURL+"/api/v3/ticker/24hr")
	if err != nil {
		return nil, err
	}
	var tickers []dto.Ticker24h
	if err := json.Unmarshal(body, &tickers); err != nil {
		return nil, domain.NewVendorFormatError(SourceAll, err)
	}

	pairs := make([]dto.Ticker24h, 0, len(tickers))
	for _, t := range tickers {
		if !strings.HasSuffix(t.Symbol, quoteAsset) || t.Symbol == quoteAsset+quoteAsset {
			continue
		}
		if e.mode.kind == modeAll && quoteVolume(t) <= e.cfg.MinQuoteVolume {
			continue
		}
		pairs = append(pairs, t)
	}
	if e.mode.kind == modeTop {
		sort.SliceStable(pairs, func(i, j int) bool { return quoteVolume(pairs[i]) > quoteVolume(pairs[j]) })
		if e.mode.n >= 0 && len(pairs) > e.mode.n {
			pairs = pairs[:e.mode.n]
		}
	}
	slog.Info("fetched binance tickers", "source", e.SourceName(), "pairs", len(tickers), "kept", len(pairs))

	out := make([]entity.RawRecord, 0, len(pairs))
	for _, t := range pairs {
		out = append(out, toRecord(t))
	}
	return out, nil
}

// fetchSymbols は1銘柄ずつ取得します。取得に失敗した銘柄は欠陥付きのレコードとして返し、件数に含めます。
func (e *Extractor) fetchSymbols(ctx context.Context) ([]entity.RawRecord, error) {
	out := make([]entity.RawRecord, 0, len(e.mode.symbols))
	for _, s := range e.mode.symbols {
		base := strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(s)), quoteAsset)
		if base == "" {
			continue
		}
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		q := url.Values{}
		q.Set("symbol", base+quoteAsset)
		body, err := e.get(ctx, fmt.Sprintf("%s/api/v3/ticker/24hr?%s", e.cfg.BaseURL, q.Encode()))
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			slog.Warn("failed to fetch binance ticker", "symbol", base, "error", err)
			out = append(out, failedRecord(base, err))
			continue
		}
		var t dto.Ticker24h
		if err := json.Unmarshal(body, &t); err != nil {
			out = append(out, failedRecord(base, err))
			continue
		}
		out = append(out, toRecord(t))
	}
	return out, nil
}

func (e *Extractor) get(ctx context.Context, u string) ([]byte, error) {
	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	res, err := e.client.Get(ctx, u, h)
	if err != nil {
		return nil, err
	}
	return vendorjson.Body(SourceAll, res)
}

func quoteVolume(t dto.Ticker24h) float64 {
	v, err := numparse.Float(t.QuoteVolume.String())
	if err != nil || v == nil {
		return 0
	}
	return *v
}

func toRecord(t dto.Ticker24h) entity.RawRecord {
	base := strings.TrimSuffix(t.Symbol, quoteAsset)
	rec := entity.RawRecord{
		Symbol:   base,
		Name:     displayName(base),
		Market:   entity.MarketBinance,
		Type:     entity.TypeCrypto,
		Currency: "USD",
		Sector:   numparse.Ptr("Cryptocurrency"),
		Country:  numparse.Ptr("Global"),
		IsActive: numparse.Ptr(true),
	}
	rec.LastPrice = vendorjson.Float(&rec, "lastPrice", t.LastPrice)
	rec.Change = vendorjson.Float(&rec, "priceChange", t.PriceChange)
	rec.ChangePercent = vendorjson.Float(&rec, "priceChangePercent", t.PriceChangePercent)
	// 出来高・時価総額の代わりに USDT 建て出来高を使う
	rec.Volume = vendorjson.Float(&rec, "quoteVolume", t.QuoteVolume)
	rec.MarketCap = rec.Volume
	return rec
}

func failedRecord(base string, err error) entity.RawRecord {
	rec := entity.RawRecord{Symbol: base, Name: displayName(base), Market: entity.MarketBinance}
	rec.AddDefect("ticker", err)
	return rec
}
