package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPoolRunsQueuedTasksBeforeStop(t *testing.T) {
	pool := NewPool(2, 16, time.Second, zap.NewNop())

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		require.True(t, pool.Submit("count", func(context.Context) error {
			ran.Add(1)
			return nil
		}))
	}
	require.NoError(t, pool.Stop(context.Background()))
	assert.EqualValues(t, 10, ran.Load())

	assert.False(t, pool.Submit("late", func(context.Context) error { return nil }))
}

func TestPoolTaskContextIsDetached(t *testing.T) {
	pool := NewPool(1, 1, time.Second, zap.NewNop())

	requestCtx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	require.True(t, pool.Submit("detached", func(ctx context.Context) error {
		<-requestCtx.Done()
		result <- ctx.Err()
		return nil
	}))
	cancel()

	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
	require.NoError(t, pool.Stop(context.Background()))
}

func TestPoolDropsWhenFull(t *testing.T) {
	pool := NewPool(1, 1, time.Second, zap.NewNop())
	release := make(chan struct{})
	started := make(chan struct{})

	require.True(t, pool.Submit("blocker", func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started
	require.True(t, pool.Submit("queued", func(context.Context) error { return nil }))
	assert.False(t, pool.Submit("overflow", func(context.Context) error { return nil }))

	close(release)
	require.NoError(t, pool.Stop(context.Background()))
}

func TestPoolSurvivesFailingTasks(t *testing.T) {
	pool := NewPool(1, 4, time.Second, zap.NewNop())
	var ran atomic.Int32

	require.True(t, pool.Submit("fails", func(context.Context) error { return errors.New("gateway down") }))
	require.True(t, pool.Submit("panics", func(context.Context) error { panic("boom") }))
	require.True(t, pool.Submit("after", func(context.Context) error {
		ran.Add(1)
		return nil
	}))

	require.NoError(t, pool.Stop(context.Background()))
	assert.EqualValues(t, 1, ran.Load())
}

func TestPoolStopHonoursDeadline(t *testing.T) {
	pool := NewPool(1, 1, time.Minute, zap.NewNop())
	release := make(chan struct{})
	defer close(release)
	require.True(t, pool.Submit("slow", func(context.Context) error {
		<-release
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.Stop(ctx), context.DeadlineExceeded)
}
