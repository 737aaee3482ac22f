package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"portfolio_backend/internal/app/di"
	"portfolio_backend/internal/platform/config"
	"portfolio_backend/internal/platform/db"
	"portfolio_backend/internal/platform/logger"
	infraredis "portfolio_backend/internal/platform/redis"
	"portfolio_backend/internal/platform/scheduler"
	"portfolio_backend/internal/shared/background"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.OpenDB(db.LoadConfigFromEnv(), 30*time.Second)
	if err != nil {
		log.Fatal(err)
	}

	// Redis
	var rdb *redisv9.Client
	if rcfg := infraredis.LoadConfigFromEnv(); rcfg.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, rcfg); err != nil {
			log.Println("[WARN] Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
		}
	}

	app := di.NewApp(di.Deps{
		Config:  cfg,
		Vendors: di.LoadVendorConfigs(cfg),
		DB:      gdb,
		Redis:   rdb,
	})
	jobs := background.NewGroup(ctx)

	// 初回起動時は空のストアを埋める
	jobs.Start("instruments:all", func(ctx context.Context) error {
		report, err := app.Sync.Bootstrap(ctx, cfg.ForceSyncOnStartup)
		if err != nil {
			return err
		}
		if report != nil {
			ok, failed := report.Totals()
			slog.Info("bootstrap sync finished", "success", ok, "failed", failed)
		}
		return nil
	})

	sched, err := scheduler.New(cfg.Sync.Timezone, slog.Default())
	if err != nil {
		log.Fatal(err)
	}
	for _, job := range app.Jobs() {
		if err := sched.Add(job); err != nil {
			log.Fatal(err)
		}
	}
	sched.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           app.Router(jobs),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("[ERROR] HTTP shutdown:", err)
	}
	sched.Stop(shutdownCtx)
	jobs.Wait()
}
