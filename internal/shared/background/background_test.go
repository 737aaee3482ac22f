package background

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroup_RejectsDuplicateWhileRunning(t *testing.T) {
	t.Parallel()

	g := NewGroup(context.Background())
	release := make(chan struct{})

	assert.True(t, g.Start("sync", func(ctx context.Context) error {
		<-release
		return nil
	}))
	assert.True(t, g.Running("sync"))
	assert.False(t, g.Start("sync", func(ctx context.Context) error { return nil }))

	close(release)
	g.Wait()

	assert.False(t, g.Running("sync"))
	assert.True(t, g.Start("sync", func(ctx context.Context) error { return errors.New("boom") }))
	g.Wait()
}

func TestGroup_IndependentNames(t *testing.T) {
	t.Parallel()

	g := NewGroup(context.Background())
	var n atomic.Int32

	for _, name := range []string{"a", "b", "c"} {
		g.Start(name, func(ctx context.Context) error {
			n.Add(1)
			return nil
		})
	}
	g.Wait()

	assert.Equal(t, int32(3), n.Load())
}

// TestGroup_RecoversPanic はジョブ内のパニックでプロセスが落ちず、実行中フラグが解除されることを検証します。
func TestGroup_RecoversPanic(t *testing.T) {
	t.Parallel()

	g := NewGroup(context.Background())
	g.Start("bad", func(ctx context.Context) error { panic("nil map") })
	g.Wait()

	assert.False(t, g.Running("bad"))
}

func TestGroup_UsesBaseContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGroup(ctx)

	var got error
	g.Start("job", func(ctx context.Context) error {
		got = ctx.Err()
		return got
	})
	g.Wait()

	assert.ErrorIs(t, got, context.Canceled)
}
