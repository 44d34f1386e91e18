package async

import (
	"context"
	"sync"
	"time"
)

// ExecFuture represents the result of an asynchronous computation that only returns an error.
// It is settled exactly once, either by the function started with Exec or by an
// explicit Resolve or Reject; later settle calls are ignored.
type ExecFuture struct {
	err  error
	once sync.Once
	done chan struct{}
}

// NewExecFuture returns a pending future to be settled with Resolve or Reject.
func NewExecFuture() *ExecFuture {
	return &ExecFuture{done: make(chan struct{})}
}

// Settled returns a future that is already complete with err.
func Settled(err error) *ExecFuture {
	f := NewExecFuture()
	f.settle(err)
	return f
}

// Resolve completes the future successfully. It reports whether this call settled it.
func (f *ExecFuture) Resolve() bool {
	return f.settle(nil)
}

// Reject completes the future with err. It reports whether this call settled it.
func (f *ExecFuture) Reject(err error) bool {
	return f.settle(err)
}

func (f *ExecFuture) settle(err error) bool {
	settled := false
	f.once.Do(func() {
		f.err = err
		close(f.done)
		settled = true
	})
	return settled
}

// Await waits for the asynchronous function to complete and returns its error.
func (f *ExecFuture) Await() error {
	<-f.done
	return f.err
}

// AwaitWithTimeout waits for the asynchronous function to complete with a timeout.
// Returns the error if the function completes before the timeout.
// If the timeout occurs before completion, returns a timeout error.
func (f *ExecFuture) AwaitWithTimeout(timeout time.Duration) error {
	select {
	case <-f.done:
		return f.err
	case <-time.After(timeout):
		return ErrTimeout
	}
}

// AwaitContext waits for completion or for ctx to be done, whichever comes first.
// Giving up on the wait does not cancel the computation.
func (f *ExecFuture) AwaitContext(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel closed once the future is settled.
func (f *ExecFuture) Done() <-chan struct{} {
	return f.done
}

// IsComplete checks if the asynchronous function is complete without blocking.
// Returns true if the function has completed, false otherwise.
func (f *ExecFuture) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
