package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
)

// Ledger は同期タスクのライフサイクル（PENDING → RUNNING → SUCCESS/FAILED）を記録します。
type Ledger struct {
	repo SyncTaskRepository
	now  func() time.Time
}

// NewLedger は新しい Ledger を作成します。
func NewLedger(repo SyncTaskRepository) *Ledger {
	return &Ledger{repo: repo, now: time.Now}
}

// TaskRun は1回の同期実行に対応するタスクのハンドルです。終了状態への遷移は一度だけ成功します。
type TaskRun struct {
	ledger *Ledger

	mu   sync.Mutex
	task entity.SyncTask
}

// Open はネットワーク呼び出しの前に PENDING のタスクを作成します。
func (l *Ledger) Open(ctx context.Context, label string) (*TaskRun, error) {
	task := entity.SyncTask{
		ID:        uuid.New().String(),
		Market:    label,
		Status:    entity.TaskPending,
		StartedAt: l.now(),
	}
	if err := l.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create sync task %s: %w", label, err)
	}
	return &TaskRun{ledger: l, task: task}, nil
}

// Task returns a snapshot of the current task state.
func (r *TaskRun) Task() entity.SyncTask {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.task
}

// Running はフェッチ開始直前にタスクを RUNNING に更新します。
func (r *TaskRun) Running(ctx context.Context) error {
	return r.transition(ctx, func(t *entity.SyncTask) {
		t.Status = entity.TaskRunning
	})
}

// Succeed はタスクを SUCCESS で終了し、集計件数を記録します。
func (r *TaskRun) Succeed(ctx context.Context, total, success, failed int) error {
	return r.transition(ctx, func(t *entity.SyncTask) {
		now := r.ledger.now()
		t.Status = entity.TaskSuccess
		t.TotalCount = total
		t.SuccessCount = success
		t.FailedCount = failed
		t.CompletedAt = &now
	})
}

// Fail はタスクを FAILED で終了し、エラーメッセージと処理済み件数を記録します。
func (r *TaskRun) Fail(ctx context.Context, cause error, total, success, failed int) error {
	return r.transition(ctx, func(t *entity.SyncTask) {
		now := r.ledger.now()
		t.Status = entity.TaskFailed
		t.TotalCount = total
		t.SuccessCount = success
		t.FailedCount = failed
		if cause != nil {
			t.ErrorMessage = cause.Error()
		}
		t.CompletedAt = &now
	})
}

// transition applies mutate to a copy and persists it. The in-memory state only
// advances once the write succeeds, so a failed write can be retried.
func (r *TaskRun) transition(ctx context.Context, mutate func(*entity.SyncTask)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.task.Status.Terminal() {
		return fmt.Errorf("task %s (%s): %w", r.task.ID, r.task.Status, domain.ErrTaskFinalized)
	}
	next := r.task
	mutate(&next)
	if err := r.ledger.repo.Update(ctx, next); err != nil {
		return fmt.Errorf("update sync task %s to %s: %w", next.ID, next.Status, err)
	}
	r.task = next
	return nil
}
