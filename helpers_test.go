package grapetree_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrymomot/grapetree"
	"github.com/dmitrymomot/grapetree/pkg/async"
)

// recorder collects hook activity in call order.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// take returns the events recorded so far and resets the recorder.
func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

func (r *recorder) enter(name string) grapetree.EnterFunc {
	return func(context.Context, any) (any, error) {
		r.add(name + " enter")
		return nil, nil
	}
}

func (r *recorder) exit(name string) grapetree.ExitFunc {
	return func(context.Context, any, int) error {
		r.add(name + " exit")
		return nil
	}
}

// leaf declares a route that only records its enter and exit.
func (r *recorder) leaf(name string) grapetree.RouteFunc {
	return func(route *grapetree.Route, _ ...grapetree.Token) error {
		route.Enter(r.enter(name))
		route.Exit(r.exit(name))
		return nil
	}
}

func await(t *testing.T, f *async.ExecFuture) error {
	t.Helper()
	return f.AwaitWithTimeout(2 * time.Second)
}

func changes(rt *grapetree.Router) func() []grapetree.Change {
	var (
		mu  sync.Mutex
		got []grapetree.Change
	)
	rt.OnChange(func(_ context.Context, c grapetree.Change) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, c)
		return nil
	})
	return func() []grapetree.Change {
		mu.Lock()
		defer mu.Unlock()
		out := got
		got = nil
		return out
	}
}
