package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"portfolio_backend/internal/feature/instruments/domain/entity"
	"portfolio_backend/internal/feature/instruments/usecase"
)

// assetRepository はAssetRepositoryインターフェースのgorm実装です。
// assets テーブルはポートフォリオ側が所有し、ここでは価格列のみ更新します。
type assetRepository struct {
	db *gorm.DB
}

var _ usecase.AssetRepository = (*assetRepository)(nil)

// NewAssetRepository は指定されたDB接続でassetRepositoryの新しいインスタンスを生成します。
func NewAssetRepository(db *gorm.DB) *assetRepository {
	return &assetRepository{db: db}
}

// AssetModel は assets テーブルのうち価格更新に必要な列です。
type AssetModel struct {
	ID           string  `gorm:"primaryKey;size:36"`
	Symbol       string  `gorm:"size:32;not null;index:idx_asset_symbol_market,priority:1"`
	Market       string  `gorm:"size:16;not null;index:idx_asset_symbol_market,priority:2"`
	Quantity     float64 `gorm:"not null;default:0"`
	CurrentPrice float64 `gorm:"not null;default:0"`
	UpdatedAt    time.Time
}

func (AssetModel) TableName() string {
	return "assets"
}

// ListHeld は保有数量が正の資産を返します。
func (r *assetRepository) ListHeld(ctx context.Context) ([]entity.HeldAsset, error) {
	var rows []AssetModel
	if err := r.db.WithContext(ctx).
		Where("quantity > ?", 0).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.HeldAsset, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.HeldAsset{ID: m.ID, Symbol: m.Symbol, Market: m.Market, CurrentPrice: m.CurrentPrice})
	}
	return out, nil
}

// UpdatePrice は資産の現在価格を更新します。
func (r *assetRepository) UpdatePrice(ctx context.Context, id string, price float64) error {
	res := r.db.WithContext(ctx).
		Model(&AssetModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"current_price": price, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
