package usecase

import (
	"context"
	"strings"

	"portfolio_backend/internal/feature/instruments/domain/entity"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
	defaultTaskLimit   = 20
)

// InstrumentUsecase は銘柄マスタと同期履歴の参照系ユースケースです。
type InstrumentUsecase struct {
	instruments InstrumentRepository
	tasks       SyncTaskRepository
}

// NewInstrumentUsecase は新しい InstrumentUsecase を作成します。
func NewInstrumentUsecase(instruments InstrumentRepository, tasks SyncTaskRepository) *InstrumentUsecase {
	return &InstrumentUsecase{instruments: instruments, tasks: tasks}
}

// Search はシンボルまたは名称に keyword を含むアクティブな銘柄を時価総額の降順で返します。
func (u *InstrumentUsecase) Search(ctx context.Context, keyword, market string, limit int) ([]entity.Instrument, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return u.instruments.Search(ctx, entity.SearchQuery{
		Keyword: strings.TrimSpace(keyword),
		Market:  strings.ToUpper(strings.TrimSpace(market)),
		Limit:   limit,
	})
}

// Get は (symbol, market) で銘柄を1件取得します。見つからない場合は domain.ErrInstrumentNotFound を返します。
func (u *InstrumentUsecase) Get(ctx context.Context, symbol, market string) (*entity.Instrument, error) {
	return u.instruments.FindBySymbol(ctx, strings.TrimSpace(symbol), strings.ToUpper(strings.TrimSpace(market)))
}

// Stats はアクティブな銘柄数と市場ごとの内訳を返します。
func (u *InstrumentUsecase) Stats(ctx context.Context) (entity.Stats, error) {
	byMarket, err := u.instruments.CountActiveByMarket(ctx)
	if err != nil {
		return entity.Stats{}, err
	}
	var total int64
	for _, m := range byMarket {
		total += m.Count
	}
	return entity.Stats{TotalActive: total, ByMarket: byMarket}, nil
}

// ListTasks は新しい順に同期タスクを返します。
func (u *InstrumentUsecase) ListTasks(ctx context.Context, limit int) ([]entity.SyncTask, error) {
	if limit <= 0 {
		limit = defaultTaskLimit
	}
	return u.tasks.ListRecent(ctx, limit)
}

// ClearTasks は同期タスク台帳を全削除します（管理操作）。
func (u *InstrumentUsecase) ClearTasks(ctx context.Context) (int64, error) {
	return u.tasks.DeleteAll(ctx)
}
