package handler_test

import (
	"context"

	"portfolio_backend/internal/feature/instruments/domain/entity"
	"portfolio_backend/internal/feature/instruments/usecase"
)

// syncLauncher はジョブを同期的に実行するLauncherです。
type syncLauncher struct {
	Busy    map[string]bool
	Started []string
	Errs    []error
}

func (l *syncLauncher) Start(name string, fn func(ctx context.Context) error) bool {
	if l.Busy[name] {
		return false
	}
	l.Started = append(l.Started, name)
	if err := fn(context.Background()); err != nil {
		l.Errs = append(l.Errs, err)
	}
	return true
}

type mockSyncRunner struct {
	SourcesList        []string
	ResolveSourceFunc  func(name string) (string, error)
	SyncSourceFunc     func(ctx context.Context, name string) (usecase.SourceResult, error)
	SyncTopCryptosFunc func(ctx context.Context, n int) (usecase.SourceResult, error)
	SyncCryptosFunc    func(ctx context.Context, symbols []string) (usecase.SourceResult, error)

	SyncAllCalls int
}

func (m *mockSyncRunner) Sources() []string { return m.SourcesList }

func (m *mockSyncRunner) ResolveSource(name string) (string, error) {
	return m.ResolveSourceFunc(name)
}

func (m *mockSyncRunner) SyncAll(ctx context.Context) usecase.Report {
	m.SyncAllCalls++
	return usecase.Report{}
}

func (m *mockSyncRunner) SyncSource(ctx context.Context, name string) (usecase.SourceResult, error) {
	return m.SyncSourceFunc(ctx, name)
}

func (m *mockSyncRunner) SyncTopCryptos(ctx context.Context, n int) (usecase.SourceResult, error) {
	return m.SyncTopCryptosFunc(ctx, n)
}

func (m *mockSyncRunner) SyncCryptos(ctx context.Context, symbols []string) (usecase.SourceResult, error) {
	return m.SyncCryptosFunc(ctx, symbols)
}

type mockInstrumentReader struct {
	SearchFunc     func(ctx context.Context, keyword, market string, limit int) ([]entity.Instrument, error)
	GetFunc        func(ctx context.Context, symbol, market string) (*entity.Instrument, error)
	StatsFunc      func(ctx context.Context) (entity.Stats, error)
	ListTasksFunc  func(ctx context.Context, limit int) ([]entity.SyncTask, error)
	ClearTasksFunc func(ctx context.Context) (int64, error)
}

func (m *mockInstrumentReader) Search(ctx context.Context, keyword, market string, limit int) ([]entity.Instrument, error) {
	return m.SearchFunc(ctx, keyword, market, limit)
}

func (m *mockInstrumentReader) Get(ctx context.Context, symbol, market string) (*entity.Instrument, error) {
	return m.GetFunc(ctx, symbol, market)
}

func (m *mockInstrumentReader) Stats(ctx context.Context) (entity.Stats, error) {
	return m.StatsFunc(ctx)
}

func (m *mockInstrumentReader) ListTasks(ctx context.Context, limit int) ([]entity.SyncTask, error) {
	return m.ListTasksFunc(ctx, limit)
}

func (m *mockInstrumentReader) ClearTasks(ctx context.Context) (int64, error) {
	return m.ClearTasksFunc(ctx)
}
