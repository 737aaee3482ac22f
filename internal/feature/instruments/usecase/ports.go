// Package usecase implements market-data synchronization and the instrument read paths.
package usecase

import (
	"context"

	"portfolio_backend/internal/feature/instruments/domain/entity"
)

// Extractor は1つの外部データソースから生レコードを取得します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type Extractor interface {
	// SourceName はレジストリのキーおよび同期タスクのラベルとして使われます。
	SourceName() string
	Fetch(ctx context.Context) ([]entity.RawRecord, error)
}

// CryptoSource builds ad-hoc crypto extractors beyond the registered "all pairs" run.
type CryptoSource interface {
	TopByVolume(n int) Extractor
	ForSymbols(symbols []string) Extractor
}

// InstrumentRepository は銘柄マスタの永続化を抽象化します。
type InstrumentRepository interface {
	// Upsert inserts inst or, on a (symbol, market) conflict, overwrites only columns.
	Upsert(ctx context.Context, inst entity.Instrument, columns []string) error
	FindBySymbol(ctx context.Context, symbol, market string) (*entity.Instrument, error)
	FindByKeys(ctx context.Context, keys []entity.InstrumentKey) ([]entity.Instrument, error)
	Search(ctx context.Context, q entity.SearchQuery) ([]entity.Instrument, error)
	Count(ctx context.Context) (int64, error)
	CountActiveByMarket(ctx context.Context) ([]entity.MarketCount, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// SyncTaskRepository は同期タスク台帳の永続化を抽象化します。
type SyncTaskRepository interface {
	Create(ctx context.Context, task entity.SyncTask) error
	Update(ctx context.Context, task entity.SyncTask) error
	ListRecent(ctx context.Context, limit int) ([]entity.SyncTask, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// AssetRepository reads held assets and writes back refreshed prices.
type AssetRepository interface {
	ListHeld(ctx context.Context) ([]entity.HeldAsset, error)
	UpdatePrice(ctx context.Context, id string, price float64) error
}
