// Package handler はinstrumentsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
	"portfolio_backend/internal/feature/instruments/transport/http/dto"
	"portfolio_backend/internal/feature/instruments/usecase"
)

// SyncRunner は銘柄同期のユースケースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SyncRunner interface {
	Sources() []string
	ResolveSource(name string) (string, error)
	SyncAll(ctx context.Context) usecase.Report
	SyncSource(ctx context.Context, name string) (usecase.SourceResult, error)
	SyncTopCryptos(ctx context.Context, n int) (usecase.SourceResult, error)
	SyncCryptos(ctx context.Context, symbols []string) (usecase.SourceResult, error)
}

// InstrumentReader は銘柄の参照系ユースケースです。
type InstrumentReader interface {
	Search(ctx context.Context, keyword, market string, limit int) ([]entity.Instrument, error)
	Get(ctx context.Context, symbol, market string) (*entity.Instrument, error)
	Stats(ctx context.Context) (entity.Stats, error)
	ListTasks(ctx context.Context, limit int) ([]entity.SyncTask, error)
	ClearTasks(ctx context.Context) (int64, error)
}

// Launcher はジョブをリクエストの外で実行します。同名ジョブが実行中なら false を返します。
type Launcher interface {
	Start(name string, fn func(ctx context.Context) error) bool
}

// InstrumentHandler は銘柄と同期タスクのHTTPリクエストを処理します。
type InstrumentHandler struct {
	sync   SyncRunner
	reader InstrumentReader
	jobs   Launcher
}

// NewInstrumentHandler は新しい InstrumentHandler を作成します。
func NewInstrumentHandler(sync SyncRunner, reader InstrumentReader, jobs Launcher) *InstrumentHandler {
	return &InstrumentHandler{sync: sync, reader: reader, jobs: jobs}
}

// SyncAll は全ソースの同期をバックグラウンドで開始し、202を返します。
//
// POST /instruments/sync
func (h *InstrumentHandler) SyncAll(c *gin.Context) {
	started := h.jobs.Start("instruments:all", func(ctx context.Context) error {
		h.sync.SyncAll(ctx)
		return nil
	})
	if !started {
		c.JSON(http.StatusConflict, gin.H{"error": "sync already running"})
		return
	}
	c.JSON(http.StatusAccepted, dto.SyncAcceptedResponse{Message: "sync started", Sources: h.sync.Sources()})
}

// SyncMarket は1ソースの同期をバックグラウンドで開始します。
// BINANCE_TOP は ?limit=N、BINANCE_SPECIFIC は ?symbols=BTC,ETH を受け付けます。
//
// POST /instruments/sync/:market
func (h *InstrumentHandler) SyncMarket(c *gin.Context) {
	market := strings.ToUpper(strings.TrimSpace(c.Param("market")))

	var job func(ctx context.Context) error
	switch market {
	case usecase.LabelBinanceTop:
		n, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
		job = func(ctx context.Context) error {
			res, err := h.sync.SyncTopCryptos(ctx, n)
			return runError(res, err)
		}
	case usecase.LabelBinanceSpecific:
		symbols := splitList(c.Query("symbols"))
		if len(symbols) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "symbols is required"})
			return
		}
		job = func(ctx context.Context) error {
			res, err := h.sync.SyncCryptos(ctx, symbols)
			return runError(res, err)
		}
	default:
		key, err := h.sync.ResolveSource(market)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "sources": h.sync.Sources()})
			return
		}
		market = key
		job = func(ctx context.Context) error {
			res, err := h.sync.SyncSource(ctx, key)
			return runError(res, err)
		}
	}

	if !h.jobs.Start("instruments:"+market, job) {
		c.JSON(http.StatusConflict, gin.H{"error": "sync already running", "source": market})
		return
	}
	c.JSON(http.StatusAccepted, dto.SyncAcceptedResponse{Message: "sync started", Sources: []string{market}})
}

// ListTasks は直近の同期タスクを新しい順に返します。
//
// GET /instruments/sync/tasks?limit=20
func (h *InstrumentHandler) ListTasks(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	tasks, err := h.reader.ListTasks(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.SyncTaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, dto.NewSyncTaskResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

// ClearTasks は同期タスク履歴を全て削除します。
//
// DELETE /instruments/sync/tasks
func (h *InstrumentHandler) ClearTasks(c *gin.Context) {
	n, err := h.reader.ClearTasks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// Search はシンボル・名称で銘柄を検索します。
//
// GET /instruments/search?q=apple&market=NASDAQ&limit=50
func (h *InstrumentHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.reader.Search(c.Request.Context(), c.Query("q"), c.Query("market"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.InstrumentResponse, 0, len(items))
	for _, i := range items {
		out = append(out, dto.NewInstrumentResponse(i))
	}
	c.JSON(http.StatusOK, out)
}

// Stats はアクティブな銘柄数を市場別に返します。
//
// GET /instruments/stats
func (h *InstrumentHandler) Stats(c *gin.Context) {
	stats, err := h.reader.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := dto.StatsResponse{TotalActive: stats.TotalActive, ByMarket: make([]dto.MarketCountItem, 0, len(stats.ByMarket))}
	for _, m := range stats.ByMarket {
		out.ByMarket = append(out.ByMarket, dto.MarketCountItem{Market: m.Market, Count: m.Count})
	}
	c.JSON(http.StatusOK, out)
}

// Get は1銘柄を返します。
//
// GET /instruments/:market/:symbol
func (h *InstrumentHandler) Get(c *gin.Context) {
	inst, err := h.reader.Get(c.Request.Context(), c.Param("symbol"), c.Param("market"))
	if errors.Is(err, domain.ErrInstrumentNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.NewInstrumentResponse(*inst))
}

// runError はソース単位で中断した実行をエラーとして返します。
func runError(res usecase.SourceResult, err error) error {
	if err != nil {
		return err
	}
	if res.Error != "" {
		return errors.New(res.Error)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
