package usecase

import (
	"context"
	"errors"
	"sync"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
)

var ErrDB = errors.New("database error")

// mockExtractor is a mock implementation of the Extractor interface.
type mockExtractor struct {
	name       string
	FetchFunc  func(ctx context.Context) ([]entity.RawRecord, error)
	FetchCalls int
}

func (m *mockExtractor) SourceName() string { return m.name }

func (m *mockExtractor) Fetch(ctx context.Context) ([]entity.RawRecord, error) {
	m.FetchCalls++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return nil, nil
}

// mockInstrumentRepository is a goroutine-safe mock of InstrumentRepository.
type mockInstrumentRepository struct {
	mu sync.Mutex

	UpsertFunc              func(ctx context.Context, inst entity.Instrument, columns []string) error
	FindBySymbolFunc        func(ctx context.Context, symbol, market string) (*entity.Instrument, error)
	FindByKeysFunc          func(ctx context.Context, keys []entity.InstrumentKey) ([]entity.Instrument, error)
	SearchFunc              func(ctx context.Context, q entity.SearchQuery) ([]entity.Instrument, error)
	CountFunc               func(ctx context.Context) (int64, error)
	CountActiveByMarketFunc func(ctx context.Context) ([]entity.MarketCount, error)
	DeleteAllFunc           func(ctx context.Context) (int64, error)

	Upserted       []entity.Instrument
	FindByKeysArgs [][]entity.InstrumentKey
	DeleteAllCalls int
}

func (m *mockInstrumentRepository) Upsert(ctx context.Context, inst entity.Instrument, columns []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertFunc != nil {
		if err := m.UpsertFunc(ctx, inst, columns); err != nil {
			return err
		}
	}
	m.Upserted = append(m.Upserted, inst)
	return nil
}

func (m *mockInstrumentRepository) FindBySymbol(ctx context.Context, symbol, market string) (*entity.Instrument, error) {
	if m.FindBySymbolFunc != nil {
		return m.FindBySymbolFunc(ctx, symbol, market)
	}
	return nil, domain.ErrInstrumentNotFound
}

func (m *mockInstrumentRepository) FindByKeys(ctx context.Context, keys []entity.InstrumentKey) ([]entity.Instrument, error) {
	m.mu.Lock()
	m.FindByKeysArgs = append(m.FindByKeysArgs, keys)
	m.mu.Unlock()
	if m.FindByKeysFunc != nil {
		return m.FindByKeysFunc(ctx, keys)
	}
	return nil, nil
}

func (m *mockInstrumentRepository) Search(ctx context.Context, q entity.SearchQuery) ([]entity.Instrument, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockInstrumentRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *mockInstrumentRepository) CountActiveByMarket(ctx context.Context) ([]entity.MarketCount, error) {
	if m.CountActiveByMarketFunc != nil {
		return m.CountActiveByMarketFunc(ctx)
	}
	return nil, nil
}

func (m *mockInstrumentRepository) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	m.DeleteAllCalls++
	m.mu.Unlock()
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	return 0, nil
}

func (m *mockInstrumentRepository) upsertedSymbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Upserted))
	for _, i := range m.Upserted {
		out = append(out, i.Symbol)
	}
	return out
}

// mockSyncTaskRepository keeps every written task state in memory.
type mockSyncTaskRepository struct {
	mu sync.Mutex

	CreateFunc     func(ctx context.Context, task entity.SyncTask) error
	UpdateFunc     func(ctx context.Context, task entity.SyncTask) error
	ListRecentFunc func(ctx context.Context, limit int) ([]entity.SyncTask, error)
	DeleteAllFunc  func(ctx context.Context) (int64, error)

	Tasks   map[string]entity.SyncTask
	History []entity.TaskStatus
}

func newMockSyncTaskRepository() *mockSyncTaskRepository {
	return &mockSyncTaskRepository{Tasks: map[string]entity.SyncTask{}}
}

func (m *mockSyncTaskRepository) Create(ctx context.Context, task entity.SyncTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, task); err != nil {
			return err
		}
	}
	m.Tasks[task.ID] = task
	m.History = append(m.History, task.Status)
	return nil
}

func (m *mockSyncTaskRepository) Update(ctx context.Context, task entity.SyncTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateFunc != nil {
		if err := m.UpdateFunc(ctx, task); err != nil {
			return err
		}
	}
	m.Tasks[task.ID] = task
	m.History = append(m.History, task.Status)
	return nil
}

func (m *mockSyncTaskRepository) ListRecent(ctx context.Context, limit int) ([]entity.SyncTask, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockSyncTaskRepository) DeleteAll(ctx context.Context) (int64, error) {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	return 0, nil
}

// byLabel returns the single task recorded for label.
func (m *mockSyncTaskRepository) byLabel(label string) (entity.SyncTask, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tasks {
		if t.Market == label {
			return t, true
		}
	}
	return entity.SyncTask{}, false
}

// mockCryptoSource is a mock implementation of CryptoSource.
type mockCryptoSource struct {
	TopN    int
	Symbols []string
	ext     *mockExtractor
}

func (m *mockCryptoSource) TopByVolume(n int) Extractor {
	m.TopN = n
	return m.ext
}

func (m *mockCryptoSource) ForSymbols(symbols []string) Extractor {
	m.Symbols = symbols
	return m.ext
}

// mockAssetRepository is a mock implementation of AssetRepository.
type mockAssetRepository struct {
	ListHeldFunc    func(ctx context.Context) ([]entity.HeldAsset, error)
	UpdatePriceFunc func(ctx context.Context, id string, price float64) error
	Updated         map[string]float64
}

func (m *mockAssetRepository) ListHeld(ctx context.Context) ([]entity.HeldAsset, error) {
	if m.ListHeldFunc != nil {
		return m.ListHeldFunc(ctx)
	}
	return nil, nil
}

func (m *mockAssetRepository) UpdatePrice(ctx context.Context, id string, price float64) error {
	if m.UpdatePriceFunc != nil {
		if err := m.UpdatePriceFunc(ctx, id, price); err != nil {
			return err
		}
	}
	if m.Updated == nil {
		m.Updated = map[string]float64{}
	}
	m.Updated[id] = price
	return nil
}

func f64(v float64) *float64 { return &v }

func str(v string) *string { return &v }
