package di

import (
	"log/slog"
	"time"

	"portfolio_backend/internal/platform/config"
)

// syncLocation は同期スケジュールのタイムゾーンを返します。読めない場合は UTC です。
func syncLocation(cfg *config.Config) *time.Location {
	loc, err := time.LoadLocation(cfg.Sync.Timezone)
	if err != nil {
		slog.Warn("invalid sync timezone, using UTC", "timezone", cfg.Sync.Timezone, "error", err)
		return time.UTC
	}
	return loc
}
