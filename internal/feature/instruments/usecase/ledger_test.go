package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
)

func TestLedger_SuccessLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMockSyncTaskRepository()
	l := NewLedger(repo)

	run, err := l.Open(ctx, "NASDAQ")
	require.NoError(t, err)
	_, err = uuid.Parse(run.Task().ID)
	require.NoError(t, err, "task id should be a uuid")
	assert.Equal(t, entity.TaskPending, run.Task().Status)
	assert.Nil(t, run.Task().CompletedAt)

	require.NoError(t, run.Running(ctx))
	require.NoError(t, run.Succeed(ctx, 3, 2, 1))

	stored := repo.Tasks[run.Task().ID]
	assert.Equal(t, entity.TaskSuccess, stored.Status)
	assert.Equal(t, 3, stored.TotalCount)
	assert.Equal(t, 2, stored.SuccessCount)
	assert.Equal(t, 1, stored.FailedCount)
	assert.NotNil(t, stored.CompletedAt)
	assert.Equal(t, []entity.TaskStatus{entity.TaskPending, entity.TaskRunning, entity.TaskSuccess}, repo.History)
}

// TestLedger_TerminalOnlyOnce は終了状態への遷移が一度しか成功しないことを検証します。
func TestLedger_TerminalOnlyOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMockSyncTaskRepository()
	run, err := NewLedger(repo).Open(ctx, "SSE_STOCK")
	require.NoError(t, err)

	require.NoError(t, run.Fail(ctx, errors.New("vendor down"), 0, 0, 0))

	assert.ErrorIs(t, run.Succeed(ctx, 1, 1, 0), domain.ErrTaskFinalized)
	assert.ErrorIs(t, run.Fail(ctx, errors.New("again"), 0, 0, 0), domain.ErrTaskFinalized)
	assert.ErrorIs(t, run.Running(ctx), domain.ErrTaskFinalized)

	stored := repo.Tasks[run.Task().ID]
	assert.Equal(t, entity.TaskFailed, stored.Status)
	assert.Equal(t, "vendor down", stored.ErrorMessage)
}

// TestLedger_FailedWriteKeepsState は書き込み失敗時にメモリ上の状態が進まず、再試行できることを検証します。
func TestLedger_FailedWriteKeepsState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMockSyncTaskRepository()
	run, err := NewLedger(repo).Open(ctx, "EFUNDS")
	require.NoError(t, err)

	repo.UpdateFunc = func(ctx context.Context, task entity.SyncTask) error { return ErrDB }
	err = run.Succeed(ctx, 1, 1, 0)
	require.ErrorIs(t, err, ErrDB)
	assert.Equal(t, entity.TaskPending, run.Task().Status)

	repo.UpdateFunc = nil
	require.NoError(t, run.Succeed(ctx, 1, 1, 0))
	assert.Equal(t, entity.TaskSuccess, run.Task().Status)
}

func TestLedger_OpenError(t *testing.T) {
	t.Parallel()

	repo := newMockSyncTaskRepository()
	repo.CreateFunc = func(ctx context.Context, task entity.SyncTask) error { return ErrDB }

	run, err := NewLedger(repo).Open(context.Background(), "BOSERA")

	assert.Nil(t, run)
	assert.ErrorIs(t, err, ErrDB)
}
