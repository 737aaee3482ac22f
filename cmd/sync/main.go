// Command sync runs one synchronization pass from the command line and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"portfolio_backend/internal/app/di"
	"portfolio_backend/internal/feature/instruments/usecase"
	"portfolio_backend/internal/platform/config"
	"portfolio_backend/internal/platform/db"
	"portfolio_backend/internal/platform/logger"
)

func main() {
	source := flag.String("source", "", "sync only this source (e.g. NASDAQ, SSE_BOND, BINANCE)")
	fx := flag.Bool("fx", false, "sync exchange rates")
	prices := flag.Bool("prices", false, "refresh held asset prices from the instrument store")
	force := flag.Bool("force", false, "delete all instruments before a full sync")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall deadline")
	flag.Parse()

	cfg := config.Load()
	slog.SetDefault(logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	gdb, err := db.OpenDB(db.LoadConfigFromEnv(), 30*time.Second)
	if err != nil {
		log.Fatal(err)
	}
	app := di.NewApp(di.Deps{Config: cfg, Vendors: di.LoadVendorConfigs(cfg), DB: gdb})

	switch {
	case *fx:
		res, err := app.Rates.Sync(ctx)
		if err != nil {
			log.Fatal("exchange rate sync failed: ", err)
		}
		fmt.Printf("exchange rates %s: success=%d failed=%d\n", res.Date.Format(time.DateOnly), res.Success, res.Failed)
	case *prices:
		res, err := app.Refresher.RefreshAll(ctx)
		if err != nil {
			log.Fatal("price refresh failed: ", err)
		}
		fmt.Printf("assets=%d updated=%d failed=%d\n", res.Assets, res.Updated, res.Failed)
	case *source != "":
		res, err := app.Sync.SyncSource(ctx, *source)
		if err != nil {
			log.Fatalf("sync %s: %v (available: %v)", *source, err, app.Sync.Sources())
		}
		printReport(usecase.Report{*source: res})
	case *force:
		report, err := app.Sync.Bootstrap(ctx, true)
		if err != nil {
			log.Fatal(err)
		}
		printReport(report)
	default:
		printReport(app.Sync.SyncAll(ctx))
	}
}

func printReport(report usecase.Report) {
	names := make([]string, 0, len(report))
	for name := range report {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r := report[name]
		line := fmt.Sprintf("%-16s success=%d failed=%d", name, r.Success, r.Failed)
		if r.Error != "" {
			line += " error=" + r.Error
		}
		fmt.Println(line)
	}
	ok, failed := report.Totals()
	fmt.Printf("total success=%d failed=%d\n", ok, failed)
}
