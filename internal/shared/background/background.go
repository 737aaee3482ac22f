// Package background runs request-triggered jobs outside the request lifetime.
package background

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Group は名前付きジョブをバックグラウンドで実行します。同名ジョブは同時に1つだけ実行されます。
type Group struct {
	base    context.Context
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// NewGroup は base から派生した context でジョブを実行する Group を作成します。
// base のキャンセルで実行中のジョブも止まります。
func NewGroup(base context.Context) *Group {
	return &Group{base: base, running: map[string]struct{}{}}
}

// Start は name のジョブが実行中でなければ fn を開始して true を返します。
func (g *Group) Start(name string, fn func(ctx context.Context) error) bool {
	g.mu.Lock()
	if _, busy := g.running[name]; busy {
		g.mu.Unlock()
		return false
	}
	g.running[name] = struct{}{}
	g.wg.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()
		defer func() {
			g.mu.Lock()
			delete(g.running, name)
			g.mu.Unlock()
		}()
		defer func() {
			if p := recover(); p != nil {
				slog.Error("background job panicked", "job", name, "panic", fmt.Sprint(p))
			}
		}()

		start := time.Now()
		if err := fn(g.base); err != nil {
			slog.Error("background job failed", "job", name, "error", err, "duration", time.Since(start))
			return
		}
		slog.Info("background job finished", "job", name, "duration", time.Since(start))
	}()
	return true
}

// Running は name のジョブが実行中かを返します。
func (g *Group) Running(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.running[name]
	return ok
}

// Wait は実行中の全ジョブの終了を待ちます。
func (g *Group) Wait() {
	g.wg.Wait()
}
