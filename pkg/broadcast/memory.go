package broadcast

import (
	"context"
	"sync"
)

// MemoryBroadcaster is an in-process Broadcaster. Each subscriber gets its own
// buffered channel; a full buffer drops the message for that subscriber only.
type MemoryBroadcaster[T any] struct {
	mu          sync.RWMutex
	subscribers map[*memorySubscriber[T]]struct{}
	buffer      int
	closed      bool
}

// NewMemoryBroadcaster creates a broadcaster with a per-subscriber buffer of the
// given size. Negative sizes are treated as zero.
func NewMemoryBroadcaster[T any](buffer int) *MemoryBroadcaster[T] {
	return &MemoryBroadcaster[T]{
		subscribers: make(map[*memorySubscriber[T]]struct{}),
		buffer:      max(buffer, 0),
	}
}

// Subscribe registers a new subscriber. On a closed broadcaster the returned
// subscriber is already closed.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	s := &memorySubscriber[T]{
		ch:     make(chan Message[T], b.buffer),
		done:   make(chan struct{}),
		parent: b,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		s.closeLocked()
		return s
	}
	b.subscribers[s] = struct{}{}
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			_ = s.Close()
		case <-s.done:
		}
	}()

	return s
}

// Broadcast delivers msg to every subscriber whose buffer has room.
func (b *MemoryBroadcaster[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBroadcasterClosed
	}
	for s := range b.subscribers {
		select {
		case s.ch <- msg:
		default:
			// slow consumer
		}
	}
	return nil
}

// Close closes every subscriber. Further broadcasts fail with ErrBroadcasterClosed.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for s := range b.subscribers {
		delete(b.subscribers, s)
		s.closeLocked()
	}
	return nil
}

// SubscriberCount returns the number of active subscribers.
func (b *MemoryBroadcaster[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

type memorySubscriber[T any] struct {
	ch     chan Message[T]
	done   chan struct{}
	once   sync.Once
	parent *MemoryBroadcaster[T]
}

func (s *memorySubscriber[T]) Receive(context.Context) <-chan Message[T] {
	return s.ch
}

func (s *memorySubscriber[T]) Close() error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()

	delete(s.parent.subscribers, s)
	s.closeLocked()
	return nil
}

// closeLocked closes the channels once. Callers hold parent.mu for writing so no
// Broadcast can be sending concurrently.
func (s *memorySubscriber[T]) closeLocked() {
	s.once.Do(func() {
		close(s.ch)
		close(s.done)
	})
}
