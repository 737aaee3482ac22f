package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio_backend/internal/feature/exchangerates/domain/entity"
	"portfolio_backend/internal/feature/exchangerates/usecase"
)

type exchangeRateRepository struct {
	db *gorm.DB
}

var _ usecase.ExchangeRateRepository = (*exchangeRateRepository)(nil)

func NewExchangeRateRepository(db *gorm.DB) *exchangeRateRepository {
	return &exchangeRateRepository{db: db}
}

type ExchangeRateModel struct {
	ID           uint            `gorm:"primaryKey"`
	FromCurrency string          `gorm:"size:8;not null;uniqueIndex:idx_rate_pair_date,priority:1"`
	ToCurrency   string          `gorm:"size:8;not null;uniqueIndex:idx_rate_pair_date,priority:2"`
	Date         time.Time       `gorm:"not null;uniqueIndex:idx_rate_pair_date,priority:3"`
	Rate         decimal.Decimal `gorm:"type:decimal(20,10);not null"`
	Source       string          `gorm:"size:32;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ExchangeRateModel) TableName() string {
	return "exchange_rates"
}

func toEntity(m ExchangeRateModel) *entity.ExchangeRate {
	return &entity.ExchangeRate{
		FromCurrency: m.FromCurrency,
		ToCurrency:   m.ToCurrency,
		Rate:         m.Rate,
		Date:         m.Date.UTC(),
		Source:       m.Source,
	}
}

func (r *exchangeRateRepository) Upsert(ctx context.Context, rate entity.ExchangeRate) error {
	m := ExchangeRateModel{
		FromCurrency: rate.FromCurrency,
		ToCurrency:   rate.ToCurrency,
		Date:         rate.Date,
		Rate:         rate.Rate,
		Source:       rate.Source,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "from_currency"}, {Name: "to_currency"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate", "source", "updated_at"}),
	}).Create(&m).Error
}

func (r *exchangeRateRepository) Latest(ctx context.Context, from, to string) (*entity.ExchangeRate, error) {
	var m ExchangeRateModel
	err := r.db.WithContext(ctx).
		Where("from_currency = ? AND to_currency = ?", from, to).
		Order("date DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrRateNotFound
	}
	if err != nil {
		return nil, err
	}
	return toEntity(m), nil
}

func (r *exchangeRateRepository) On(ctx context.Context, from, to string, day time.Time) (*entity.ExchangeRate, error) {
	var m ExchangeRateModel
	err := r.db.WithContext(ctx).
		Where("from_currency = ? AND to_currency = ? AND date >= ? AND date < ?", from, to, day, day.AddDate(0, 0, 1)).
		Order("date DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrRateNotFound
	}
	if err != nil {
		return nil, err
	}
	return toEntity(m), nil
}

func (r *exchangeRateRepository) History(ctx context.Context, from, to string, start, end time.Time) ([]entity.ExchangeRate, error) {
	var rows []ExchangeRateModel
	if err := r.db.WithContext(ctx).
		Where("from_currency = ? AND to_currency = ? AND date >= ? AND date <= ?", from, to, start, end).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.ExchangeRate, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toEntity(m))
	}
	return out, nil
}

func (r *exchangeRateRepository) Stats(ctx context.Context) (entity.RateStats, error) {
	var stats entity.RateStats
	db := r.db.WithContext(ctx).Model(&ExchangeRateModel{})

	if err := db.Count(&stats.TotalRecords).Error; err != nil {
		return entity.RateStats{}, err
	}
	if err := r.db.WithContext(ctx).Model(&ExchangeRateModel{}).
		Distinct("from_currency").
		Order("from_currency ASC").
		Pluck("from_currency", &stats.Currencies).Error; err != nil {
		return entity.RateStats{}, err
	}

	var latest ExchangeRateModel
	err := r.db.WithContext(ctx).Order("date DESC").First(&latest).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return entity.RateStats{}, err
	default:
		d := latest.Date.UTC()
		stats.LatestDate = &d
	}
	return stats, nil
}
