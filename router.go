package grapetree

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"

	"github.com/dmitrymomot/grapetree/core/event"
	"github.com/dmitrymomot/grapetree/core/logger"
	"github.com/dmitrymomot/grapetree/pkg/async"
	"github.com/dmitrymomot/grapetree/pkg/broadcast"
)

// ChangeEvent is the event name change listeners are registered under.
const ChangeEvent = "change"

// Change describes a committed transition.
type Change struct {
	// Path is the committed path in external representation, or the originally
	// requested path when the redirect that produced it asked for that.
	Path any
	// Previous is the path committed before the transition, nil on the first one.
	Previous any
	// Redirected reports whether at least one redirect was followed.
	Redirected bool
	// Partial reports that a hook error stopped the transition short of its target.
	Partial bool
}

// ChangeFunc is a synchronous change listener. Its error is logged and does not
// affect the transition.
type ChangeFunc func(ctx context.Context, c Change) error

// Stats is a snapshot of router counters.
type Stats struct {
	Transitions uint64 // requests that ran, including no-ops and failures
	NoOps       uint64
	Failures    uint64
	Superseded  uint64
	Redirects   uint64
}

type counters struct {
	transitions atomic.Uint64
	noops       atomic.Uint64
	failures    atomic.Uint64
	superseded  atomic.Uint64
	redirects   atomic.Uint64
}

// Router holds the active route chain and serializes transitions between paths.
// All hooks of all transitions run on one goroutine at a time, in request order.
type Router struct {
	define RouteFunc

	mu          sync.Mutex
	transform   *Transform
	currentPath Path // internal, starts with rootMarker once the root is entered
	chain       []chainEntry
	running     bool
	closed      bool
	queue       transitionQueue

	logger          *slog.Logger
	tracer          trace.Tracer
	metrics         *metrics
	maxRedirects    int
	broadcastBuffer int
	err             error

	emitter     *event.Emitter
	broadcaster *broadcast.MemoryBroadcaster[Change]
	stats       counters
}

// New creates a router whose top-level route is configured by define.
// Nothing runs until the first Go call, which enters the top-level route.
func New(define RouteFunc, opts ...Option) *Router {
	cfg := DefaultConfig()
	rt := &Router{
		define:          define,
		logger:          logger.Discard(),
		tracer:          otel.Tracer(cfg.TracerName),
		maxRedirects:    cfg.MaxRedirects,
		broadcastBuffer: cfg.BroadcastBuffer,
	}
	for _, opt := range opts {
		opt(rt)
	}
	if define == nil && rt.err == nil {
		rt.err = ErrNilHandler
	}

	rt.logger = rt.logger.With(logger.Component("grapetree"))
	rt.emitter = event.NewEmitter(event.WithLogger(rt.logger))
	rt.broadcaster = broadcast.NewMemoryBroadcaster[Change](rt.broadcastBuffer)
	return rt
}

// Go requests a transition to path. The returned future settles when the
// transition and all of its hooks have finished; it is rejected with the first
// error no handler absorbed.
//
// While another transition runs the request waits in a queue. Hooks must not
// await a future returned by Go on the same router, since that request cannot
// start before the hook returns.
func (rt *Router) Go(ctx context.Context, path any, opts ...GoOption) *async.ExecFuture {
	req := &request{
		ctx:    ctx,
		path:   path,
		emit:   true,
		soft:   true,
		future: async.NewExecFuture(),
	}
	for _, opt := range opts {
		opt(req)
	}

	rt.mu.Lock()
	if rt.closed {
		rt.mu.Unlock()
		rt.metrics.transition(resultClosed, 0)
		return async.Settled(ErrRouterClosed)
	}
	if rt.running {
		if dropped := rt.queue.push(req); dropped != nil {
			rt.supersede(dropped)
		}
		rt.metrics.queued(rt.queue.len())
		rt.mu.Unlock()
		return req.future
	}
	rt.running = true
	rt.mu.Unlock()

	async.Exec(context.WithoutCancel(ctx), req, rt.drain)
	return req.future
}

// drain runs req and then every request the queue yields until it is empty.
func (rt *Router) drain(_ context.Context, req *request) error {
	for req != nil {
		rt.process(req)

		rt.mu.Lock()
		next, dropped := rt.queue.pop()
		for _, d := range dropped {
			rt.supersede(d)
		}
		if next == nil {
			rt.running = false
		}
		rt.metrics.queued(rt.queue.len())
		rt.mu.Unlock()

		req = next
	}
	return nil
}

func (rt *Router) process(req *request) {
	if err := rt.run(req); err != nil {
		req.future.Reject(err)
		return
	}
	req.future.Resolve()
}

// supersede rejects a soft request replaced by a newer one. Callers hold mu.
func (rt *Router) supersede(req *request) {
	rt.stats.superseded.Inc()
	rt.metrics.transition(resultSuperseded, 0)
	rt.logger.Debug("transition superseded", logger.Path(req.path))
	req.future.Reject(ErrSuperseded)
}

// Current returns the committed path in external representation.
func (rt *Router) Current() any {
	rt.mu.Lock()
	p := rt.currentPath
	rt.mu.Unlock()

	if len(p) == 0 {
		return rt.toExternal(Path{})
	}
	return rt.toExternal(p[1:])
}

// OnChange registers a listener called after every committed transition that
// changed the path, before the transition's future settles. A nil fn is ignored.
func (rt *Router) OnChange(fn ChangeFunc) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	off, err := rt.emitter.On(event.NewHandler(ChangeEvent, event.HandlerFunc[Change](fn)))
	if err != nil {
		return func() {}
	}
	return off
}

// Subscribe returns a channel subscription to changes. Slow subscribers miss
// changes instead of blocking transitions.
func (rt *Router) Subscribe(ctx context.Context) broadcast.Subscriber[Change] {
	return rt.broadcaster.Subscribe(ctx)
}

// Stats returns a snapshot of the router counters.
func (rt *Router) Stats() Stats {
	return Stats{
		Transitions: rt.stats.transitions.Load(),
		NoOps:       rt.stats.noops.Load(),
		Failures:    rt.stats.failures.Load(),
		Superseded:  rt.stats.superseded.Load(),
		Redirects:   rt.stats.redirects.Load(),
	}
}

// Close rejects queued requests with ErrRouterClosed, ends every subscription and
// makes further Go calls fail. A running transition finishes normally.
func (rt *Router) Close() error {
	rt.mu.Lock()
	if rt.closed {
		rt.mu.Unlock()
		return nil
	}
	rt.closed = true
	pending := rt.queue.drainAll()
	rt.metrics.queued(0)
	rt.mu.Unlock()

	for _, req := range pending {
		rt.metrics.transition(resultClosed, 0)
		req.future.Reject(ErrRouterClosed)
	}
	return rt.broadcaster.Close()
}
