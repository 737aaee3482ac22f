package di

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"portfolio_backend/internal/app/router"
	rateadapters "portfolio_backend/internal/feature/exchangerates/adapters"
	ratehandler "portfolio_backend/internal/feature/exchangerates/transport/handler"
	rateusecase "portfolio_backend/internal/feature/exchangerates/usecase"
	instrumentadapters "portfolio_backend/internal/feature/instruments/adapters"
	instrumenthandler "portfolio_backend/internal/feature/instruments/transport/handler"
	instrumentusecase "portfolio_backend/internal/feature/instruments/usecase"
	"portfolio_backend/internal/platform/cache"
	"portfolio_backend/internal/platform/config"
	"portfolio_backend/internal/platform/externalapi/chinamoney"
	platformhandler "portfolio_backend/internal/platform/http/handler"
	"portfolio_backend/internal/platform/scheduler"
	"portfolio_backend/internal/shared/background"
)

var (
	_ instrumenthandler.SyncRunner       = (*instrumentusecase.SyncUsecase)(nil)
	_ instrumenthandler.InstrumentReader = (*instrumentusecase.InstrumentUsecase)(nil)
	_ instrumenthandler.PriceResolver    = (*instrumentusecase.PriceResolver)(nil)
	_ instrumenthandler.PriceRefresher   = (*instrumentusecase.AssetPriceRefresher)(nil)
	_ ratehandler.ExchangeRateUsecase    = (*rateusecase.ExchangeRateUsecase)(nil)
	_ instrumenthandler.Launcher         = (*background.Group)(nil)
)

// Deps are the process-level resources the application is built from.
type Deps struct {
	Config  *config.Config
	Vendors VendorConfigs
	DB      *gorm.DB
	Redis   *redis.Client // nil runs without the read cache
	// CacheTTL bounds cached read results. Zero uses the time until the next scheduled instrument sync.
	CacheTTL time.Duration
}

// App は組み立て済みのユースケース群です。
type App struct {
	Sync        *instrumentusecase.SyncUsecase
	Instruments *instrumentusecase.InstrumentUsecase
	Prices      *instrumentusecase.PriceResolver
	Refresher   *instrumentusecase.AssetPriceRefresher
	Rates       *rateusecase.ExchangeRateUsecase

	db *gorm.DB
}

// NewApp はリポジトリ・外部ソース・ユースケースを組み立てます。
func NewApp(d Deps) *App {
	cfg := d.Config

	// Repository
	var instrumentRepo instrumentusecase.InstrumentRepository = instrumentadapters.NewInstrumentRepository(d.DB)
	if d.Redis != nil {
		ttl := d.CacheTTL
		if ttl <= 0 {
			ttl = cache.TimeUntilNextSync(time.Now(), syncLocation(cfg), 6, 0)
		}
		instrumentRepo = cache.NewCachingInstrumentRepository(d.Redis, ttl, instrumentRepo, "instruments")
	}
	taskRepo := instrumentadapters.NewSyncTaskRepository(d.DB)
	assetRepo := instrumentadapters.NewAssetRepository(d.DB)
	rateRepo := rateadapters.NewExchangeRateRepository(d.DB)

	// External sources
	client := NewVendorClient(cfg, nil)
	if cfg.ProxyURL != "" {
		client = NewVendorClient(cfg, newProxy(cfg.ProxyURL))
	}
	registry, crypto := NewSourceRegistry(d.Vendors, client, cfg.Sync.SSEBondPrefixes)
	feed := chinamoney.NewFeed(d.Vendors.ChinaMoney, client)

	// Usecase
	resolver := instrumentusecase.NewPriceResolver(instrumentRepo)
	return &App{
		Sync:        instrumentusecase.NewSyncUsecase(registry, instrumentRepo, instrumentusecase.NewLedger(taskRepo), crypto),
		Instruments: instrumentusecase.NewInstrumentUsecase(instrumentRepo, taskRepo),
		Prices:      resolver,
		Refresher:   instrumentusecase.NewAssetPriceRefresher(assetRepo, resolver),
		Rates:       rateusecase.NewExchangeRateUsecase(feed, rateRepo, cfg.DefaultExchangeRates),
		db:          d.DB,
	}
}

// Router は HTTP ハンドラーを組み立てて gin.Engine を返します。jobs はバックグラウンド同期の実行先です。
func (a *App) Router(jobs *background.Group) *gin.Engine {
	var pinger platformhandler.Pinger
	if sqlDB, err := a.db.DB(); err == nil {
		pinger = sqlDB
	}
	return router.NewRouter(router.Handlers{
		Health:      platformhandler.NewHealthHandler(pinger),
		Instruments: instrumenthandler.NewInstrumentHandler(a.Sync, a.Instruments, jobs),
		Prices:      instrumenthandler.NewPriceHandler(a.Prices, a.Refresher, jobs),
		Rates:       ratehandler.NewExchangeRateHandler(a.Rates, jobs),
	})
}

// Jobs は定期実行するジョブを返します。
func (a *App) Jobs() []scheduler.Job {
	return []scheduler.Job{
		{
			Name: "instruments",
			Spec: scheduler.SpecInstruments,
			Run: func(ctx context.Context) error {
				a.Sync.SyncAll(ctx)
				return nil
			},
		},
		{Name: "asset-prices-open", Spec: scheduler.SpecPricesOpen, Run: a.refreshPrices, Timeout: 10 * time.Minute},
		{Name: "asset-prices-close", Spec: scheduler.SpecPricesClose, Run: a.refreshPrices, Timeout: 10 * time.Minute},
		{
			Name: "exchange-rates",
			Spec: scheduler.SpecExchangeRate,
			Run: func(ctx context.Context) error {
				_, err := a.Rates.Sync(ctx)
				return err
			},
			Timeout: 5 * time.Minute,
		},
	}
}

func (a *App) refreshPrices(ctx context.Context) error {
	_, err := a.Refresher.RefreshAll(ctx)
	return err
}
