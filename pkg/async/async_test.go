package async_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famlinkhq/notifykit/pkg/async"
)

func TestRunAndAwait(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := async.Run(ctx, 21, func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	})

	got, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestRunPropagatesError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	wantErr := errors.New("boom")
	f := async.Run(ctx, "x", func(ctx context.Context, s string) (string, error) {
		return "", wantErr
	})

	_, err := f.Await()
	assert.ErrorIs(t, err, wantErr)
}

func TestRunRecoversPanic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := async.Run(ctx, 0, func(ctx context.Context, _ int) (int, error) {
		panic("exploded")
	})

	_, err := f.Await()
	require.ErrorIs(t, err, async.ErrPanicked)
	assert.Contains(t, err.Error(), "exploded")
}

func TestRunPreCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	f := async.Run(ctx, 0, func(ctx context.Context, _ int) (int, error) {
		ran.Store(true)
		return 1, nil
	})

	_, err := f.Await()
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran.Load())
}

func TestAwaitWithTimeout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("completes in time", func(t *testing.T) {
		t.Parallel()
		f := async.Run(ctx, 0, func(ctx context.Context, _ int) (string, error) {
			return "done", nil
		})
		got, err := f.AwaitWithTimeout(time.Second)
		require.NoError(t, err)
		assert.Equal(t, "done", got)
	})

	t.Run("times out", func(t *testing.T) {
		t.Parallel()
		f := async.Run(ctx, 0, func(ctx context.Context, _ int) (string, error) {
			time.Sleep(time.Second)
			return "late", nil
		})
		_, err := f.AwaitWithTimeout(20 * time.Millisecond)
		assert.ErrorIs(t, err, async.ErrTimeout)
	})
}

func TestIsComplete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	release := make(chan struct{})
	f := async.Run(ctx, 0, func(ctx context.Context, _ int) (int, error) {
		<-release
		return 1, nil
	})

	assert.False(t, f.IsComplete())
	close(release)

	_, err := f.Await()
	require.NoError(t, err)
	assert.True(t, f.IsComplete())
}

func TestSettleAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("mixed outcomes in order", func(t *testing.T) {
		t.Parallel()

		futures := make([]*async.Future[string], 5)
		for i := range futures {
			futures[i] = async.Run(ctx, i, func(ctx context.Context, n int) (string, error) {
				if n == 2 {
					return "", fmt.Errorf("task %d failed", n)
				}
				return fmt.Sprintf("task %d", n), nil
			})
		}

		outcomes := async.SettleAll(futures...)
		require.Len(t, outcomes, 5)
		for i, o := range outcomes {
			if i == 2 {
				assert.Error(t, o.Err)
				continue
			}
			require.NoError(t, o.Err)
			assert.Equal(t, fmt.Sprintf("task %d", i), o.Value)
		}
	})

	t.Run("one panic does not poison siblings", func(t *testing.T) {
		t.Parallel()

		good := async.Run(ctx, 0, func(ctx context.Context, _ int) (int, error) { return 7, nil })
		bad := async.Run(ctx, 0, func(ctx context.Context, _ int) (int, error) { panic("dead") })

		outcomes := async.SettleAll(good, bad)
		require.Len(t, outcomes, 2)
		assert.NoError(t, outcomes[0].Err)
		assert.Equal(t, 7, outcomes[0].Value)
		assert.ErrorIs(t, outcomes[1].Err, async.ErrPanicked)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, async.SettleAll[int]())
	})
}

func TestRunIsConcurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	const n = 10
	start := time.Now()
	futures := make([]*async.Future[int], n)
	for i := range futures {
		futures[i] = async.Run(ctx, i, func(ctx context.Context, v int) (int, error) {
			time.Sleep(50 * time.Millisecond)
			return v, nil
		})
	}
	async.SettleAll(futures...)

	// Sequential execution would take ~500ms.
	assert.Less(t, time.Since(start), 300*time.Millisecond)
}
