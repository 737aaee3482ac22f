package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"portfolio_backend/internal/feature/instruments/domain"
	"portfolio_backend/internal/feature/instruments/domain/entity"
)

// Ledger labels for ad-hoc crypto runs.
const (
	LabelBinanceTop      = "BINANCE_TOP"
	LabelBinanceSpecific = "BINANCE_SPECIFIC"
)

// SourceResult はソース1件分の同期結果です。
type SourceResult struct {
	Success int
	Failed  int
	Error   string // set when the run aborted
}

// Report はソース名ごとの同期結果です。
type Report map[string]SourceResult

// Totals sums success and failure counts over every source.
func (r Report) Totals() (success, failed int) {
	for _, res := range r {
		success += res.Success
		failed += res.Failed
	}
	return success, failed
}

// SyncUsecase は登録された全ソースの抽出 → 正規化 → 検証 → upsert を実行します。
type SyncUsecase struct {
	registry    *Registry
	instruments InstrumentRepository
	ledger      *Ledger
	crypto      CryptoSource
	now         func() time.Time
}

// NewSyncUsecase は新しい SyncUsecase を作成します。crypto は nil でも構いません。
func NewSyncUsecase(registry *Registry, instruments InstrumentRepository, ledger *Ledger, crypto CryptoSource) *SyncUsecase {
	return &SyncUsecase{
		registry:    registry,
		instruments: instruments,
		ledger:      ledger,
		crypto:      crypto,
		now:         time.Now,
	}
}

// SyncAll は全ソースを並行して同期し、ソース名ごとの結果を返します。
// 1つのソースの失敗が他のソースを止めることはなく、常に全ソース分の結果を返します。
func (s *SyncUsecase) SyncAll(ctx context.Context) Report {
	start := time.Now()
	names := s.registry.Names()
	report := make(Report, len(names))
	var mu sync.Mutex

	// 各ゴルーチンはエラーを返さないため、1つの失敗で他がキャンセルされることはない
	var g errgroup.Group
	for _, name := range names {
		_, ext, err := s.registry.Lookup(name)
		if err != nil {
			continue
		}
		g.Go(func() error {
			res := s.run(ctx, name, ext)
			mu.Lock()
			report[name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	success, failed := report.Totals()
	slog.Info("sync all completed", "sources", len(report), "success", success, "failed", failed, "duration", time.Since(start))
	return report
}

// SyncSource は許可リストで名前を検証し、その1ソースのみ同期します。
func (s *SyncUsecase) SyncSource(ctx context.Context, name string) (SourceResult, error) {
	key, ext, err := s.registry.Lookup(name)
	if err != nil {
		return SourceResult{}, err
	}
	return s.run(ctx, key, ext), nil
}

// Sources は登録済みソース名を登録順に返します。
func (s *SyncUsecase) Sources() []string {
	return s.registry.Names()
}

// ResolveSource は name を正規のソース名に解決します。未登録の場合は domain.ErrUnknownSource を返します。
func (s *SyncUsecase) ResolveSource(name string) (string, error) {
	key, _, err := s.registry.Lookup(name)
	return key, err
}

// SyncTopCryptos は出来高上位 n 件の暗号資産を同期します。
func (s *SyncUsecase) SyncTopCryptos(ctx context.Context, n int) (SourceResult, error) {
	if s.crypto == nil {
		return SourceResult{}, fmt.Errorf("%s: %w", LabelBinanceTop, domain.ErrUnknownSource)
	}
	if n <= 0 {
		n = 100
	}
	return s.run(ctx, LabelBinanceTop, s.crypto.TopByVolume(n)), nil
}

// SyncCryptos は指定したシンボル（例: "BTC", "ETH"）の暗号資産のみ同期します。
func (s *SyncUsecase) SyncCryptos(ctx context.Context, symbols []string) (SourceResult, error) {
	if s.crypto == nil {
		return SourceResult{}, fmt.Errorf("%s: %w", LabelBinanceSpecific, domain.ErrUnknownSource)
	}
	var cleaned []string
	for _, sym := range symbols {
		if sym = strings.ToUpper(strings.TrimSpace(sym)); sym != "" {
			cleaned = append(cleaned, sym)
		}
	}
	if len(cleaned) == 0 {
		return SourceResult{}, errors.New("no crypto symbols given")
	}
	return s.run(ctx, LabelBinanceSpecific, s.crypto.ForSymbols(cleaned)), nil
}

// Bootstrap は起動時の初期同期を行います。
// force が true の場合は全銘柄を削除してから全ソースを同期し、
// false の場合は銘柄テーブルが空のときのみ同期します。同期しなかった場合は nil を返します。
func (s *SyncUsecase) Bootstrap(ctx context.Context, force bool) (Report, error) {
	if force {
		n, err := s.ClearAll(ctx)
		if err != nil {
			return nil, err
		}
		slog.Info("forced resync: cleared instruments", "deleted", n)
		return s.SyncAll(ctx), nil
	}

	total, err := s.instruments.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count instruments: %w", err)
	}
	if total > 0 {
		slog.Info("instruments already present, skipping initial sync", "count", total)
		return nil, nil
	}
	slog.Info("instrument table is empty, running initial sync")
	return s.SyncAll(ctx), nil
}

// ClearAll は全銘柄を削除します。強制再同期専用の管理操作です。
func (s *SyncUsecase) ClearAll(ctx context.Context) (int64, error) {
	n, err := s.instruments.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear instruments: %w", err)
	}
	return n, nil
}

// run は1ソース分のパイプラインを実行し、台帳に記録します。
// レコード単位の失敗は件数に数えて処理を続け、ソース単位の失敗のみ Error に設定します。
func (s *SyncUsecase) run(ctx context.Context, label string, ext Extractor) (res SourceResult) {
	log := slog.With("source", label)
	start := time.Now()

	task, err := s.ledger.Open(ctx, label)
	if err != nil {
		log.Error("failed to open sync task", "error", err)
		return SourceResult{Error: err.Error()}
	}

	// 台帳の終了記録は呼び出し元がキャンセルされても書き込む
	finalCtx := context.WithoutCancel(ctx)
	var total int
	abort := func(cause error) SourceResult {
		log.Error("sync failed", "error", cause, "success", res.Success, "failed", res.Failed)
		if err := task.Fail(finalCtx, cause, total, res.Success, res.Failed); err != nil {
			log.Error("failed to finalize sync task", "error", err)
		}
		res.Error = cause.Error()
		return res
	}
	defer func() {
		if p := recover(); p != nil {
			res = abort(fmt.Errorf("panic: %v", p))
		}
	}()

	if err := task.Running(ctx); err != nil {
		return abort(err)
	}

	records, err := ext.Fetch(ctx)
	if err != nil {
		return abort(err)
	}
	total = len(records)
	log.Info("fetched records", "count", total)

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return abort(err)
		}
		if err := s.persist(ctx, rec); err != nil {
			res.Failed++
			log.Warn("record skipped", "symbol", rec.Symbol, "error", err)
			continue
		}
		res.Success++
	}

	if err := task.Succeed(finalCtx, total, res.Success, res.Failed); err != nil {
		log.Error("failed to finalize sync task", "error", err)
	}
	log.Info("sync completed", "total", total, "success", res.Success, "failed", res.Failed, "duration", time.Since(start))
	return res
}

// persist normalizes, validates and upserts one record.
func (s *SyncUsecase) persist(ctx context.Context, rec entity.RawRecord) error {
	inst, cols, err := Normalize(rec, s.now())
	if err != nil {
		return err
	}
	if err := Validate(inst); err != nil {
		return err
	}
	if err := s.instruments.Upsert(ctx, inst, cols); err != nil {
		return &domain.PersistenceError{Symbol: inst.Symbol, Market: inst.Market, Err: err}
	}
	return nil
}
