package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"portfolio_backend/internal/feature/instruments/domain/entity"
	"portfolio_backend/internal/feature/instruments/usecase"
)

// syncTaskRepository はSyncTaskRepositoryインターフェースのgorm実装です。
type syncTaskRepository struct {
	db *gorm.DB
}

var _ usecase.SyncTaskRepository = (*syncTaskRepository)(nil)

// NewSyncTaskRepository は指定されたDB接続でsyncTaskRepositoryの新しいインスタンスを生成します。
func NewSyncTaskRepository(db *gorm.DB) *syncTaskRepository {
	return &syncTaskRepository{db: db}
}

// SyncTaskModel は sync_tasks テーブルの行です。
type SyncTaskModel struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Market       string    `gorm:"size:32;not null;index"`
	Status       string    `gorm:"size:16;not null"`
	TotalCount   int       `gorm:"not null;default:0"`
	SuccessCount int       `gorm:"not null;default:0"`
	FailedCount  int       `gorm:"not null;default:0"`
	ErrorMessage string    `gorm:"type:text"`
	StartedAt    time.Time `gorm:"not null;index"`
	CompletedAt  *time.Time
}

func (SyncTaskModel) TableName() string {
	return "sync_tasks"
}

func (m SyncTaskModel) toEntity() entity.SyncTask {
	return entity.SyncTask{
		ID:           m.ID,
		Market:       m.Market,
		Status:       entity.TaskStatus(m.Status),
		TotalCount:   m.TotalCount,
		SuccessCount: m.SuccessCount,
		FailedCount:  m.FailedCount,
		ErrorMessage: m.ErrorMessage,
		StartedAt:    m.StartedAt,
		CompletedAt:  m.CompletedAt,
	}
}

// Create はタスクを新規作成します。
func (r *syncTaskRepository) Create(ctx context.Context, task entity.SyncTask) error {
	m := SyncTaskModel{
		ID:           task.ID,
		Market:       task.Market,
		Status:       string(task.Status),
		TotalCount:   task.TotalCount,
		SuccessCount: task.SuccessCount,
		FailedCount:  task.FailedCount,
		ErrorMessage: task.ErrorMessage,
		StartedAt:    task.StartedAt,
		CompletedAt:  task.CompletedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

// Update はタスクの状態と件数を書き換えます。ゼロ値も書き込みます。
func (r *syncTaskRepository) Update(ctx context.Context, task entity.SyncTask) error {
	res := r.db.WithContext(ctx).
		Model(&SyncTaskModel{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"status":        string(task.Status),
			"total_count":   task.TotalCount,
			"success_count": task.SuccessCount,
			"failed_count":  task.FailedCount,
			"error_message": task.ErrorMessage,
			"completed_at":  task.CompletedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListRecent は開始日時の新しい順に最大 limit 件を返します。
func (r *syncTaskRepository) ListRecent(ctx context.Context, limit int) ([]entity.SyncTask, error) {
	var rows []SyncTaskModel
	q := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.SyncTask, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// DeleteAll は全タスクを削除し、削除件数を返します。
func (r *syncTaskRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&SyncTaskModel{})
	return res.RowsAffected, res.Error
}
