package async_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/grapetree/pkg/async"
)

func TestExec(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("passes param", func(t *testing.T) {
		t.Parallel()

		type input struct{ X, Y int }
		future := async.Exec(ctx, input{X: 10, Y: 15}, func(_ context.Context, in input) error {
			if in.X+in.Y != 25 {
				return errors.New("sum is not 25")
			}
			return nil
		})
		assert.NoError(t, future.Await())
	})

	t.Run("propagates error", func(t *testing.T) {
		t.Parallel()

		expected := errors.New("exec failed")
		future := async.Exec(ctx, 42, func(context.Context, int) error {
			return expected
		})
		assert.ErrorIs(t, future.Await(), expected)
	})

	t.Run("context deadline", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		future := async.Exec(ctx, 42, func(ctx context.Context, _ int) error {
			select {
			case <-time.After(time.Second):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		assert.ErrorIs(t, future.Await(), context.DeadlineExceeded)
	})

	t.Run("pre-canceled context skips fn", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(ctx)
		cancel()

		called := false
		future := async.Exec(ctx, 1, func(context.Context, int) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, future.Await(), context.Canceled)
		assert.False(t, called)
	})

	t.Run("concurrent calls", func(t *testing.T) {
		t.Parallel()

		var (
			mu      sync.Mutex
			counter int
		)
		futures := make([]*async.ExecFuture, 0, 100)
		for n := 0; n < 100; n++ {
			futures = append(futures, async.Exec(ctx, 1, func(_ context.Context, delta int) error {
				mu.Lock()
				defer mu.Unlock()
				counter += delta
				return nil
			}))
		}
		require.NoError(t, async.ExecAll(futures...))
		assert.Equal(t, 100, counter)
	})
}

func TestExecAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	expected := errors.New("second failed")
	sleep := func(err error) func(context.Context, time.Duration) error {
		return func(_ context.Context, d time.Duration) error {
			time.Sleep(d)
			return err
		}
	}

	assert.NoError(t, async.ExecAll(
		async.Exec(ctx, 10*time.Millisecond, sleep(nil)),
		async.Exec(ctx, 20*time.Millisecond, sleep(nil)),
	))

	err := async.ExecAll(
		async.Exec(ctx, 10*time.Millisecond, sleep(nil)),
		async.Exec(ctx, 20*time.Millisecond, sleep(expected)),
		async.Exec(ctx, 30*time.Millisecond, sleep(nil)),
	)
	assert.ErrorIs(t, err, expected)

	assert.NoError(t, async.ExecAll())
}

func TestExecAny(t *testing.T) {
	t.Parallel()

	_, err := async.ExecAny()
	assert.ErrorIs(t, err, async.ErrNoFutures)

	expected := errors.New("fast failed")
	slow := async.NewExecFuture()
	fast := async.Settled(expected)

	index, err := async.ExecAny(slow, fast)
	assert.Equal(t, 1, index)
	assert.ErrorIs(t, err, expected)

	slow.Resolve()
}
