// Package router wires HTTP routes to handlers.
package router

import (
	"github.com/gin-gonic/gin"

	ratehandler "portfolio_backend/internal/feature/exchangerates/transport/handler"
	instrumenthandler "portfolio_backend/internal/feature/instruments/transport/handler"
	platformhandler "portfolio_backend/internal/platform/http/handler"
)

// Handlers はルーターに登録するハンドラーの集合です。
type Handlers struct {
	Health      *platformhandler.HealthHandler
	Instruments *instrumenthandler.InstrumentHandler
	Prices      *instrumenthandler.PriceHandler
	Rates       *ratehandler.ExchangeRateHandler
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)

	instruments := r.Group("/instruments")
	{
		// 同期はバックグラウンドで実行し 202 を返す
		instruments.POST("/sync", h.Instruments.SyncAll)
		instruments.POST("/sync/:market", h.Instruments.SyncMarket)
		instruments.GET("/sync/tasks", h.Instruments.ListTasks)
		instruments.DELETE("/sync/tasks", h.Instruments.ClearTasks)
		instruments.GET("/search", h.Instruments.Search)
		instruments.GET("/stats", h.Instruments.Stats)
		instruments.GET("/:market/:symbol", h.Instruments.Get)
	}

	prices := r.Group("/prices")
	{
		prices.POST("/resolve", h.Prices.Resolve)
		prices.POST("/refresh", h.Prices.Refresh)
	}

	rates := r.Group("/exchange-rates")
	{
		rates.POST("/sync", h.Rates.Sync)
		rates.GET("/latest", h.Rates.Latest)
		rates.GET("/history", h.Rates.History)
		rates.GET("/convert", h.Rates.Convert)
		rates.GET("/stats", h.Rates.Stats)
		rates.GET("/currencies", h.Rates.Currencies)
	}

	return r
}
