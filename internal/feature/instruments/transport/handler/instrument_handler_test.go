package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
	"portfolio_backend/internal/feature/instruments/transport/handler"
	"portfolio_backend/internal/feature/instruments/usecase"
)

func setupInstrumentRouter(h *handler.InstrumentHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/instruments/sync", h.SyncAll)
	r.POST("/instruments/sync/:market", h.SyncMarket)
	r.GET("/instruments/sync/tasks", h.ListTasks)
	r.DELETE("/instruments/sync/tasks", h.ClearTasks)
	r.GET("/instruments/search", h.Search)
	r.GET("/instruments/stats", h.Stats)
	r.GET("/instruments/:market/:symbol", h.Get)
	return r
}

func resolveKnown(name string) (string, error) {
	switch name {
	case "NASDAQ", "SSE_STOCK":
		return name, nil
	case "SSE":
		return "SSE_STOCK", nil
	}
	return "", fmt.Errorf("%q: %w", name, domain.ErrUnknownSource)
}

func TestInstrumentHandler_SyncAll(t *testing.T) {
	runner := &mockSyncRunner{SourcesList: []string{"NASDAQ", "SSE_STOCK"}}
	jobs := &syncLauncher{}
	r := setupInstrumentRouter(handler.NewInstrumentHandler(runner, &mockInstrumentReader{}, jobs))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/instruments/sync", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"message":"sync started","sources":["NASDAQ","SSE_STOCK"]}`, w.Body.String())
	assert.Equal(t, 1, runner.SyncAllCalls)
	assert.Equal(t, []string{"instruments:all"}, jobs.Started)
}

func TestInstrumentHandler_SyncAll_AlreadyRunning(t *testing.T) {
	runner := &mockSyncRunner{}
	jobs := &syncLauncher{Busy: map[string]bool{"instruments:all": true}}
	r := setupInstrumentRouter(handler.NewInstrumentHandler(runner, &mockInstrumentReader{}, jobs))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/instruments/sync", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Zero(t, runner.SyncAllCalls)
}

func TestInstrumentHandler_SyncMarket(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantStatus  int
		wantJob     string
		wantSymbols []string
		wantTopN    int
	}{
		{name: "registered source", url: "/instruments/sync/nasdaq", wantStatus: http.StatusAccepted, wantJob: "instruments:NASDAQ"},
		{name: "legacy alias", url: "/instruments/sync/SSE", wantStatus: http.StatusAccepted, wantJob: "instruments:SSE_STOCK"},
		{name: "unknown source", url: "/instruments/sync/LSE", wantStatus: http.StatusBadRequest},
		{name: "binance top default", url: "/instruments/sync/BINANCE_TOP", wantStatus: http.StatusAccepted, wantJob: "instruments:BINANCE_TOP", wantTopN: 100},
		{name: "binance top limit", url: "/instruments/sync/binance_top?limit=20", wantStatus: http.StatusAccepted, wantJob: "instruments:BINANCE_TOP", wantTopN: 20},
		{name: "binance specific", url: "/instruments/sync/BINANCE_SPECIFIC?symbols=btc,%20eth", wantStatus: http.StatusAccepted, wantJob: "instruments:BINANCE_SPECIFIC", wantSymbols: []string{"btc", "eth"}},
		{name: "binance specific without symbols", url: "/instruments/sync/BINANCE_SPECIFIC", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSource string
			var gotSymbols []string
			var gotN int
			runner := &mockSyncRunner{
				SourcesList:       []string{"NASDAQ", "SSE_STOCK"},
				ResolveSourceFunc: resolveKnown,
				SyncSourceFunc: func(ctx context.Context, name string) (usecase.SourceResult, error) {
					gotSource = name
					return usecase.SourceResult{Success: 1}, nil
				},
				SyncTopCryptosFunc: func(ctx context.Context, n int) (usecase.SourceResult, error) {
					gotN = n
					return usecase.SourceResult{}, nil
				},
				SyncCryptosFunc: func(ctx context.Context, symbols []string) (usecase.SourceResult, error) {
					gotSymbols = symbols
					return usecase.SourceResult{}, nil
				},
			}
			jobs := &syncLauncher{}
			r := setupInstrumentRouter(handler.NewInstrumentHandler(runner, &mockInstrumentReader{}, jobs))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.url, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusAccepted {
				assert.Empty(t, jobs.Started)
				return
			}
			assert.Equal(t, []string{tt.wantJob}, jobs.Started)
			if tt.wantTopN > 0 {
				assert.Equal(t, tt.wantTopN, gotN)
			}
			if tt.wantSymbols != nil {
				assert.Equal(t, tt.wantSymbols, gotSymbols)
			}
			if gotSource != "" {
				assert.Equal(t, tt.wantJob, "instruments:"+gotSource)
			}
		})
	}
}

// TestInstrumentHandler_SyncMarket_AbortedRunIsReported は中断したソースの実行がジョブのエラーになることを検証します。
func TestInstrumentHandler_SyncMarket_AbortedRunIsReported(t *testing.T) {
	runner := &mockSyncRunner{
		ResolveSourceFunc: resolveKnown,
		SyncSourceFunc: func(ctx context.Context, name string) (usecase.SourceResult, error) {
			return usecase.SourceResult{Error: "nasdaq http 503"}, nil
		},
	}
	jobs := &syncLauncher{}
	r := setupInstrumentRouter(handler.NewInstrumentHandler(runner, &mockInstrumentReader{}, jobs))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/instruments/sync/NASDAQ", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, jobs.Errs, 1)
	assert.EqualError(t, jobs.Errs[0], "nasdaq http 503")
}

func TestInstrumentHandler_ListTasks(t *testing.T) {
	started := time.Date(2026, 2, 6, 6, 0, 0, 0, time.UTC)
	done := started.Add(90 * time.Second)
	var gotLimit int
	reader := &mockInstrumentReader{
		ListTasksFunc: func(ctx context.Context, limit int) ([]entity.SyncTask, error) {
			gotLimit = limit
			return []entity.SyncTask{{
				ID: "t1", Market: "NASDAQ", Status: entity.TaskSuccess,
				TotalCount: 3, SuccessCount: 2, FailedCount: 1,
				StartedAt: started, CompletedAt: &done,
			}}, nil
		},
	}
	r := setupInstrumentRouter(handler.NewInstrumentHandler(&mockSyncRunner{}, reader, &syncLauncher{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/instruments/sync/tasks?limit=5", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, gotLimit)
	assert.JSONEq(t, `[{"id":"t1","market":"NASDAQ","status":"SUCCESS","totalCount":3,"successCount":2,"failedCount":1,
		"startedAt":"2026-02-06T06:00:00Z","completedAt":"2026-02-06T06:01:30Z"}]`, w.Body.String())
}

func TestInstrumentHandler_ClearTasks(t *testing.T) {
	reader := &mockInstrumentReader{
		ClearTasksFunc: func(ctx context.Context) (int64, error) { return 7, nil },
	}
	r := setupInstrumentRouter(handler.NewInstrumentHandler(&mockSyncRunner{}, reader, &syncLauncher{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/instruments/sync/tasks", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":7}`, w.Body.String())
}

func TestInstrumentHandler_Search(t *testing.T) {
	nav := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)
	y7 := 1.52
	reader := &mockInstrumentReader{
		SearchFunc: func(ctx context.Context, keyword, market string, limit int) ([]entity.Instrument, error) {
			assert.Equal(t, "cash", keyword)
			assert.Equal(t, "BOSERA", market)
			assert.Equal(t, 10, limit)
			return []entity.Instrument{{
				Symbol: "050003", Name: "博时现金收益货币A", Market: "BOSERA", Type: entity.TypeFund, Currency: "CNY",
				LastPrice: 1, Yield7d: &y7, NavDate: &nav, IsActive: true, LastSyncAt: nav,
			}}, nil
		},
	}
	r := setupInstrumentRouter(handler.NewInstrumentHandler(&mockSyncRunner{}, reader, &syncLauncher{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/instruments/search?q=cash&market=BOSERA&limit=10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"symbol":"050003","name":"博时现金收益货币A","market":"BOSERA","type":"FUND","currency":"CNY",
		"lastPrice":1,"change":0,"changePercent":0,"volume":0,"marketCap":0,"yield7d":1.52,"navDate":"2026-02-05",
		"isActive":true,"lastSyncAt":"2026-02-05T00:00:00Z"}]`, w.Body.String())
}

func TestInstrumentHandler_Search_Error(t *testing.T) {
	reader := &mockInstrumentReader{
		SearchFunc: func(ctx context.Context, keyword, market string, limit int) ([]entity.Instrument, error) {
			return nil, errors.New("db down")
		},
	}
	r := setupInstrumentRouter(handler.NewInstrumentHandler(&mockSyncRunner{}, reader, &syncLauncher{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/instruments/search?q=a", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"db down"}`, w.Body.String())
}

func TestInstrumentHandler_Stats(t *testing.T) {
	reader := &mockInstrumentReader{
		StatsFunc: func(ctx context.Context) (entity.Stats, error) {
			return entity.Stats{TotalActive: 5, ByMarket: []entity.MarketCount{{Market: "NASDAQ", Count: 5}}}, nil
		},
	}
	r := setupInstrumentRouter(handler.NewInstrumentHandler(&mockSyncRunner{}, reader, &syncLauncher{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/instruments/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalActive":5,"byMarket":[{"market":"NASDAQ","count":5}]}`, w.Body.String())
}

func TestInstrumentHandler_Get(t *testing.T) {
	reader := &mockInstrumentReader{
		GetFunc: func(ctx context.Context, symbol, market string) (*entity.Instrument, error) {
			if symbol == "AAPL" && market == "NASDAQ" {
				return &entity.Instrument{Symbol: "AAPL", Name: "Apple Inc.", Market: "NASDAQ"}, nil
			}
			if symbol == "BOOM" {
				return nil, errors.New("db down")
			}
			return nil, domain.ErrInstrumentNotFound
		},
	}
	r := setupInstrumentRouter(handler.NewInstrumentHandler(&mockSyncRunner{}, reader, &syncLauncher{}))

	tests := []struct {
		url  string
		want int
	}{
		{"/instruments/NASDAQ/AAPL", http.StatusOK},
		{"/instruments/NYSE/AAPL", http.StatusNotFound},
		{"/instruments/NYSE/BOOM", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
