package usecase

import (
	"context"
	"errors"
	"time"

	"portfolio_backend/internal/feature/exchangerates/domain/entity"
)

var ErrDB = errors.New("database error")

type mockRateFeed struct {
	FetchFunc func(ctx context.Context) (entity.RateSheet, error)
}

func (m *mockRateFeed) Fetch(ctx context.Context) (entity.RateSheet, error) {
	return m.FetchFunc(ctx)
}

// mockExchangeRateRepository stores upserts keyed by pair and day.
type mockExchangeRateRepository struct {
	UpsertFunc  func(ctx context.Context, rate entity.ExchangeRate) error
	LatestFunc  func(ctx context.Context, from, to string) (*entity.ExchangeRate, error)
	OnFunc      func(ctx context.Context, from, to string, day time.Time) (*entity.ExchangeRate, error)
	HistoryFunc func(ctx context.Context, from, to string, start, end time.Time) ([]entity.ExchangeRate, error)
	StatsFunc   func(ctx context.Context) (entity.RateStats, error)

	Saved       []entity.ExchangeRate
	LatestCalls int
}

func (m *mockExchangeRateRepository) Upsert(ctx context.Context, rate entity.ExchangeRate) error {
	if m.UpsertFunc != nil {
		if err := m.UpsertFunc(ctx, rate); err != nil {
			return err
		}
	}
	m.Saved = append(m.Saved, rate)
	return nil
}

func (m *mockExchangeRateRepository) Latest(ctx context.Context, from, to string) (*entity.ExchangeRate, error) {
	m.LatestCalls++
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx, from, to)
	}
	return nil, ErrRateNotFound
}

func (m *mockExchangeRateRepository) On(ctx context.Context, from, to string, day time.Time) (*entity.ExchangeRate, error) {
	if m.OnFunc != nil {
		return m.OnFunc(ctx, from, to, day)
	}
	return nil, ErrRateNotFound
}

func (m *mockExchangeRateRepository) History(ctx context.Context, from, to string, start, end time.Time) ([]entity.ExchangeRate, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, from, to, start, end)
	}
	return nil, nil
}

func (m *mockExchangeRateRepository) Stats(ctx context.Context) (entity.RateStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return entity.RateStats{}, nil
}
