package usecase

import (
	"context"
	"time"

	"portfolio_backend/internal/feature/exchangerates/domain/entity"
)

// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).

// RateFeed は1日分の中間レート表を提供する外部ソースです。
type RateFeed interface {
	Fetch(ctx context.Context) (entity.RateSheet, error)
}

// ExchangeRateRepository は為替レートの永続化を担います。
// 見つからない場合、Latest と On は ErrRateNotFound を返します。
type ExchangeRateRepository interface {
	Upsert(ctx context.Context, rate entity.ExchangeRate) error
	Latest(ctx context.Context, from, to string) (*entity.ExchangeRate, error)
	On(ctx context.Context, from, to string, day time.Time) (*entity.ExchangeRate, error)
	History(ctx context.Context, from, to string, start, end time.Time) ([]entity.ExchangeRate, error)
	Stats(ctx context.Context) (entity.RateStats, error)
}
