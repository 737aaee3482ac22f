package dto

import (
	"time"

	"portfolio_backend/internal/feature/instruments/domain/entity"
)

// SyncAcceptedResponse は同期をバックグラウンドで開始した際のレスポンスです。
type SyncAcceptedResponse struct {
	Message string   `json:"message"`
	Sources []string `json:"sources"`
}

// SyncTaskResponse は同期タスク1件のレスポンスDTOです。
type SyncTaskResponse struct {
	ID           string     `json:"id"`
	Market       string     `json:"market"`
	Status       string     `json:"status"`
	TotalCount   int        `json:"totalCount"`
	SuccessCount int        `json:"successCount"`
	FailedCount  int        `json:"failedCount"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// NewSyncTaskResponse はエンティティをレスポンスDTOに変換します。
func NewSyncTaskResponse(t entity.SyncTask) SyncTaskResponse {
	return SyncTaskResponse{
		ID:           t.ID,
		Market:       t.Market,
		Status:       string(t.Status),
		TotalCount:   t.TotalCount,
		SuccessCount: t.SuccessCount,
		FailedCount:  t.FailedCount,
		ErrorMessage: t.ErrorMessage,
		StartedAt:    t.StartedAt,
		CompletedAt:  t.CompletedAt,
	}
}
