package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_backend/internal/feature/instruments/domain/entity"
	"portfolio_backend/internal/feature/instruments/transport/http/dto"
	"portfolio_backend/internal/feature/instruments/usecase"
)

// PriceResolver は保有資産の現在価格を解決します。
type PriceResolver interface {
	Resolve(ctx context.Context, assets []entity.HeldAsset) (map[string]float64, error)
}

// PriceRefresher は保有資産の価格を一括更新します。
type PriceRefresher interface {
	RefreshAll(ctx context.Context) (usecase.RefreshResult, error)
}

// PriceHandler は価格解決のHTTPリクエストを処理します。
type PriceHandler struct {
	resolver  PriceResolver
	refresher PriceRefresher
	jobs      Launcher
}

// NewPriceHandler は新しい PriceHandler を作成します。
func NewPriceHandler(resolver PriceResolver, refresher PriceRefresher, jobs Launcher) *PriceHandler {
	return &PriceHandler{resolver: resolver, refresher: refresher, jobs: jobs}
}

// Resolve はリクエストされた資産の価格を1回の問い合わせで解決します。
//
// POST /prices/resolve
func (h *PriceHandler) Resolve(c *gin.Context) {
	var req dto.ResolvePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assets := make([]entity.HeldAsset, 0, len(req.Assets))
	for _, a := range req.Assets {
		assets = append(assets, entity.HeldAsset{ID: a.ID, Symbol: a.Symbol, Market: a.Market, CurrentPrice: a.CurrentPrice})
	}
	prices, err := h.resolver.Resolve(c.Request.Context(), assets)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ResolvePricesResponse{Prices: prices})
}

// Refresh は全保有資産の価格更新をバックグラウンドで開始します。
//
// POST /prices/refresh
func (h *PriceHandler) Refresh(c *gin.Context) {
	started := h.jobs.Start("prices:refresh", func(ctx context.Context) error {
		_, err := h.refresher.RefreshAll(ctx)
		return err
	})
	if !started {
		c.JSON(http.StatusConflict, gin.H{"error": "price refresh already running"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "price refresh started"})
}
