package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"portfolio_backend/internal/feature/instruments/domain/entity"
)

// InstrumentPriceReader is the read path the resolver needs.
type InstrumentPriceReader interface {
	FindByKeys(ctx context.Context, keys []entity.InstrumentKey) ([]entity.Instrument, error)
}

// PriceResolver は保有資産の現在価格を同期済みの銘柄価格から解決します。
type PriceResolver struct {
	instruments InstrumentPriceReader
}

// NewPriceResolver は新しい PriceResolver を作成します。
func NewPriceResolver(instruments InstrumentPriceReader) *PriceResolver {
	return &PriceResolver{instruments: instruments}
}

// Resolve は資産IDごとの現在価格を返します。
// 重複を除いた (symbol, market) を1回のクエリでまとめて取得し、
// 同期済み価格が正の値であればそれを、そうでなければ資産自身の価格を使います。
func (r *PriceResolver) Resolve(ctx context.Context, assets []entity.HeldAsset) (map[string]float64, error) {
	out := make(map[string]float64, len(assets))
	if len(assets) == 0 {
		return out, nil
	}

	seen := make(map[entity.InstrumentKey]struct{}, len(assets))
	keys := make([]entity.InstrumentKey, 0, len(assets))
	for _, a := range assets {
		k := a.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	found, err := r.instruments.FindByKeys(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("lookup instrument prices: %w", err)
	}
	prices := make(map[entity.InstrumentKey]float64, len(found))
	for _, inst := range found {
		prices[inst.Key()] = inst.LastPrice
	}

	for _, a := range assets {
		if p, ok := prices[a.Key()]; ok && p > 0 {
			out[a.ID] = p
			continue
		}
		out[a.ID] = a.CurrentPrice
	}
	return out, nil
}

// ResolveOne は資産1件の現在価格を返します。
func (r *PriceResolver) ResolveOne(ctx context.Context, asset entity.HeldAsset) (float64, error) {
	prices, err := r.Resolve(ctx, []entity.HeldAsset{asset})
	if err != nil {
		return 0, err
	}
	return prices[asset.ID], nil
}

// RefreshResult summarises one asset price refresh.
type RefreshResult struct {
	Assets  int
	Updated int
	Failed  int
}

// AssetPriceRefresher は保有資産の価格を同期済みの銘柄価格で更新します。
type AssetPriceRefresher struct {
	assets   AssetRepository
	resolver *PriceResolver
}

// NewAssetPriceRefresher は新しい AssetPriceRefresher を作成します。
func NewAssetPriceRefresher(assets AssetRepository, resolver *PriceResolver) *AssetPriceRefresher {
	return &AssetPriceRefresher{assets: assets, resolver: resolver}
}

// RefreshAll は全保有資産の価格を解決し、変化したものだけ書き戻します。
func (r *AssetPriceRefresher) RefreshAll(ctx context.Context) (RefreshResult, error) {
	held, err := r.assets.ListHeld(ctx)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("list held assets: %w", err)
	}
	prices, err := r.resolver.Resolve(ctx, held)
	if err != nil {
		return RefreshResult{}, err
	}

	res := RefreshResult{Assets: len(held)}
	for _, a := range held {
		p := prices[a.ID]
		if p == a.CurrentPrice {
			continue
		}
		if err := r.assets.UpdatePrice(ctx, a.ID, p); err != nil {
			res.Failed++
			slog.Warn("failed to update asset price", "asset", a.ID, "symbol", a.Symbol, "error", err)
			continue
		}
		res.Updated++
	}
	slog.Info("asset prices refreshed", "assets", res.Assets, "updated", res.Updated, "failed", res.Failed)
	return res, nil
}
