package broadcast_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/grapetree/pkg/broadcast"
)

func TestMemoryBroadcaster(t *testing.T) {
	t.Parallel()

	t.Run("delivers to every subscriber", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemoryBroadcaster[string](4)
		defer b.Close()

		ctx := context.Background()
		s1 := b.Subscribe(ctx)
		s2 := b.Subscribe(ctx)
		require.Equal(t, 2, b.SubscriberCount())

		require.NoError(t, b.Broadcast(ctx, broadcast.Message[string]{Data: "a.b"}))

		for _, s := range []broadcast.Subscriber[string]{s1, s2} {
			select {
			case msg := <-s.Receive(ctx):
				assert.Equal(t, "a.b", msg.Data)
			case <-time.After(time.Second):
				t.Fatal("message not delivered")
			}
		}
	})

	t.Run("drops for slow consumers", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemoryBroadcaster[int](1)
		defer b.Close()

		ctx := context.Background()
		s := b.Subscribe(ctx)
		for i := 1; i <= 3; i++ {
			require.NoError(t, b.Broadcast(ctx, broadcast.Message[int]{Data: i}))
		}

		msg := <-s.Receive(ctx)
		assert.Equal(t, 1, msg.Data)
		select {
		case extra := <-s.Receive(ctx):
			t.Fatalf("unexpected message %d", extra.Data)
		default:
		}
	})

	t.Run("subscription ends with its context", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemoryBroadcaster[int](1)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		s := b.Subscribe(ctx)
		cancel()

		select {
		case _, ok := <-s.Receive(context.Background()):
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("subscription not closed")
		}
		assert.Eventually(t, func() bool { return b.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemoryBroadcaster[int](1)
		s := b.Subscribe(context.Background())

		require.NoError(t, s.Close())
		require.NoError(t, s.Close())
		require.NoError(t, b.Close())
		require.NoError(t, b.Close())

		err := b.Broadcast(context.Background(), broadcast.Message[int]{Data: 1})
		assert.ErrorIs(t, err, broadcast.ErrBroadcasterClosed)
	})

	t.Run("subscribe after close", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemoryBroadcaster[int](1)
		require.NoError(t, b.Close())

		s := b.Subscribe(context.Background())
		_, ok := <-s.Receive(context.Background())
		assert.False(t, ok)
		assert.Zero(t, b.SubscriberCount())
	})

	t.Run("canceled broadcast context", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemoryBroadcaster[int](1)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, b.Broadcast(ctx, broadcast.Message[int]{}), context.Canceled)
	})
}

func TestMemoryBroadcasterConcurrent(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[int](8)
	defer b.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s := b.Subscribe(context.Background())
			_ = s.Close()
		}()
		go func(n int) {
			defer wg.Done()
			_ = b.Broadcast(context.Background(), broadcast.Message[int]{Data: n})
		}(i)
	}
	wg.Wait()
	assert.Zero(t, b.SubscriberCount())
}
