// Package scheduler runs the periodic sync jobs on a cron timetable.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// 既定のスケジュール（同期タイムゾーン基準）
const (
	SpecInstruments  = "0 6 * * 1-5"
	SpecPricesOpen   = "0 9 * * 1-5"
	SpecPricesClose  = "30 15 * * 1-5"
	SpecExchangeRate = "30 9 * * *"
)

// Job はスケジュール実行される処理です。
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
	// Timeout が正の場合、1回の実行をこの時間で打ち切ります。
	Timeout time.Duration
}

// Scheduler は robfig/cron のラッパーです。同じジョブの多重実行はスキップされます。
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// New は timezone のスケジューラを作成します。
func New(timezone string, logger *slog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{l: logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}, nil
}

// Add はジョブを登録します。
func (s *Scheduler) Add(job Job) error {
	_, err := s.cron.AddFunc(job.Spec, func() { s.execute(job) })
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", job.Name, job.Spec, err)
	}
	s.logger.Info("job scheduled", "job", job.Name, "spec", job.Spec)
	return nil
}

// Start はスケジューラを開始します。
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop は新規実行を止め、実行中のジョブの完了を待ちます。
// ctx が先に終わった場合は実行中ジョブの context をキャンセルします。
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.cancel()
		<-done.Done()
	}
	s.cancel()
}

func (s *Scheduler) execute(job Job) {
	ctx := s.ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	s.logger.Info("scheduled job started", "job", job.Name)
	if err := job.Run(ctx); err != nil {
		s.logger.Error("scheduled job failed", "job", job.Name, "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Info("scheduled job finished", "job", job.Name, "duration", time.Since(start))
}

// cronLogger は cron.Logger を slog に流します。
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
