// Package adapters はinstrumentsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
	"portfolio_backend/internal/feature/instruments/usecase"
)

// keyChunk bounds the IN lists of one FindByKeys query.
const keyChunk = 500

// instrumentRepository はInstrumentRepositoryインターフェースのgorm実装です。
type instrumentRepository struct {
	db *gorm.DB
}

var _ usecase.InstrumentRepository = (*instrumentRepository)(nil)

// NewInstrumentRepository は指定されたDB接続でinstrumentRepositoryの新しいインスタンスを生成します。
func NewInstrumentRepository(db *gorm.DB) *instrumentRepository {
	return &instrumentRepository{db: db}
}

// InstrumentModel は instruments テーブルの行です。列名は usecase.Col* と一致させます。
type InstrumentModel struct {
	ID       uint   `gorm:"primaryKey"`
	Symbol   string `gorm:"size:32;not null;uniqueIndex:idx_instrument_symbol_market,priority:1"`
	Market   string `gorm:"size:16;not null;uniqueIndex:idx_instrument_symbol_market,priority:2;index"`
	Name     string `gorm:"size:255;not null"`
	Type     string `gorm:"size:16;not null"`
	Currency string `gorm:"size:8;not null"`

	LastPrice     float64 `gorm:"not null;default:0"`
	Change        float64 `gorm:"not null;default:0"`
	ChangePercent float64 `gorm:"not null;default:0"`
	Volume        float64 `gorm:"not null;default:0"`
	MarketCap     float64 `gorm:"not null;default:0;index"`

	Sector   *string `gorm:"size:128"`
	Industry *string `gorm:"size:128"`
	Country  *string `gorm:"size:64"`

	FundType            *string    `gorm:"size:64"`
	RiskLevel           *string    `gorm:"size:64"`
	ManagerName         *string    `gorm:"size:255"`
	Yield7d             *float64   `gorm:"column:yield_7d"`
	Yield1w             *float64   `gorm:"column:yield_1w"`
	Yield1m             *float64   `gorm:"column:yield_1m"`
	Yield3m             *float64   `gorm:"column:yield_3m"`
	Yield6m             *float64   `gorm:"column:yield_6m"`
	Yield1y             *float64   `gorm:"column:yield_1y"`
	YieldYTD            *float64   `gorm:"column:yield_ytd"`
	YieldSinceInception *float64   `gorm:"column:yield_since_inception"`
	NavDate             *time.Time `gorm:"column:nav_date"`
	SetupDate           *time.Time `gorm:"column:setup_date"`

	// default タグを付けると false が挿入時に省略されるため付けない
	IsActive   bool      `gorm:"not null;index"`
	LastSyncAt time.Time `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (InstrumentModel) TableName() string {
	return "instruments"
}

func toInstrumentModel(e entity.Instrument) InstrumentModel {
	return InstrumentModel{
		Symbol:              e.Symbol,
		Market:              e.Market,
		Name:                e.Name,
		Type:                e.Type,
		Currency:            e.Currency,
		LastPrice:           e.LastPrice,
		Change:              e.Change,
		ChangePercent:       e.ChangePercent,
		Volume:              e.Volume,
		MarketCap:           e.MarketCap,
		Sector:              e.Sector,
		Industry:            e.Industry,
		Country:             e.Country,
		FundType:            e.FundType,
		RiskLevel:           e.RiskLevel,
		ManagerName:         e.ManagerName,
		Yield7d:             e.Yield7d,
		Yield1w:             e.Yield1w,
		Yield1m:             e.Yield1m,
		Yield3m:             e.Yield3m,
		Yield6m:             e.Yield6m,
		Yield1y:             e.Yield1y,
		YieldYTD:            e.YieldYTD,
		YieldSinceInception: e.YieldSinceInception,
		NavDate:             e.NavDate,
		SetupDate:           e.SetupDate,
		IsActive:            e.IsActive,
		LastSyncAt:          e.LastSyncAt,
	}
}

func (m InstrumentModel) toEntity() entity.Instrument {
	return entity.Instrument{
		Symbol:              m.Symbol,
		Market:              m.Market,
		Name:                m.Name,
		Type:                m.Type,
		Currency:            m.Currency,
		LastPrice:           m.LastPrice,
		Change:              m.Change,
		ChangePercent:       m.ChangePercent,
		Volume:              m.Volume,
		MarketCap:           m.MarketCap,
		Sector:              m.Sector,
		Industry:            m.Industry,
		Country:             m.Country,
		FundType:            m.FundType,
		RiskLevel:           m.RiskLevel,
		ManagerName:         m.ManagerName,
		Yield7d:             m.Yield7d,
		Yield1w:             m.Yield1w,
		Yield1m:             m.Yield1m,
		Yield3m:             m.Yield3m,
		Yield6m:             m.Yield6m,
		Yield1y:             m.Yield1y,
		YieldYTD:            m.YieldYTD,
		YieldSinceInception: m.YieldSinceInception,
		NavDate:             m.NavDate,
		SetupDate:           m.SetupDate,
		IsActive:            m.IsActive,
		LastSyncAt:          m.LastSyncAt,
	}
}

// Upsert は (symbol, market) をキーに行を作成し、既存行は columns のみ更新します。
func (r *instrumentRepository) Upsert(ctx context.Context, inst entity.Instrument, columns []string) error {
	m := toInstrumentModel(inst)
	cols := append(append(make([]string, 0, len(columns)+1), columns...), "updated_at")
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "market"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(&m).Error
}

// FindBySymbol は (symbol, market) の行を返します。無ければ domain.ErrInstrumentNotFound を返します。
func (r *instrumentRepository) FindBySymbol(ctx context.Context, symbol, market string) (*entity.Instrument, error) {
	var m InstrumentModel
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND market = ?", symbol, market).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInstrumentNotFound
	}
	if err != nil {
		return nil, err
	}
	inst := m.toEntity()
	return &inst, nil
}

// FindByKeys は keys に一致する行をまとめて取得します。存在しないキーは結果に含まれません。
func (r *instrumentRepository) FindByKeys(ctx context.Context, keys []entity.InstrumentKey) ([]entity.Instrument, error) {
	var out []entity.Instrument
	for start := 0; start < len(keys); start += keyChunk {
		chunk := keys[start:min(start+keyChunk, len(keys))]

		want := make(map[entity.InstrumentKey]struct{}, len(chunk))
		symbols := make([]string, 0, len(chunk))
		markets := make([]string, 0, len(chunk))
		seenMarket := map[string]struct{}{}
		for _, k := range chunk {
			want[k] = struct{}{}
			symbols = append(symbols, k.Symbol)
			if _, ok := seenMarket[k.Market]; !ok {
				seenMarket[k.Market] = struct{}{}
				markets = append(markets, k.Market)
			}
		}

		var rows []InstrumentModel
		if err := r.db.WithContext(ctx).
			Where("symbol IN ? AND market IN ?", symbols, markets).
			Find(&rows).Error; err != nil {
			return nil, err
		}
		// IN の直積で余分に拾った行を除く
		for _, m := range rows {
			if _, ok := want[entity.InstrumentKey{Symbol: m.Symbol, Market: m.Market}]; ok {
				out = append(out, m.toEntity())
			}
		}
	}
	return out, nil
}

// Search はシンボルまたは名称に Keyword を含むアクティブな行を時価総額の降順で返します。
func (r *instrumentRepository) Search(ctx context.Context, q entity.SearchQuery) ([]entity.Instrument, error) {
	db := r.db.WithContext(ctx).Where("is_active = ?", true)
	if q.Keyword != "" {
		db = db.Where("(symbol LIKE ? OR name LIKE ?)", "%"+strings.ToUpper(q.Keyword)+"%", "%"+q.Keyword+"%")
	}
	if q.Market != "" {
		db = db.Where("market = ?", q.Market)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	var rows []InstrumentModel
	if err := db.Order("market_cap DESC").Order("symbol ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Instrument, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// Count は全行数を返します。
func (r *instrumentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&InstrumentModel{}).Count(&n).Error
	return n, err
}

// CountActiveByMarket は市場ごとのアクティブな行数を市場名順に返します。
func (r *instrumentRepository) CountActiveByMarket(ctx context.Context) ([]entity.MarketCount, error) {
	var rows []entity.MarketCount
	if err := r.db.WithContext(ctx).
		Model(&InstrumentModel{}).
		Select("market, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("market").
		Order("market ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteAll は全行を削除し、削除件数を返します。
func (r *instrumentRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&InstrumentModel{})
	return res.RowsAffected, res.Error
}
