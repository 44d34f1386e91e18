package grapetree

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/grapetree/core/logger"
	"github.com/dmitrymomot/grapetree/pkg/broadcast"
)

// outcome collects what a run did for notification and instrumentation.
type outcome struct {
	original     Path
	previous     Path
	redirects    int
	emitOriginal bool
	noop         bool
}

// run performs one transition on the drain goroutine.
func (rt *Router) run(req *request) (err error) {
	if err := req.ctx.Err(); err != nil {
		rt.metrics.transition(resultCanceled, 0)
		return err
	}
	if rt.err != nil {
		rt.stats.failures.Inc()
		rt.metrics.transition(resultError, 0)
		return rt.err
	}

	start := time.Now()
	ctx, span := rt.tracer.Start(req.ctx, "grapetree.transition",
		trace.WithAttributes(attribute.String("grapetree.path", fmt.Sprint(req.path))))

	out := &outcome{previous: rt.currentPath.clone()}
	defer func() {
		if v := recover(); v != nil {
			err = toError(v)
		}
		rt.finish(ctx, span, req, out, err, time.Since(start))
	}()

	rt.stats.transitions.Inc()

	requested, err := rt.toInternal(req.path)
	if err != nil {
		return err
	}
	requested = append(Path{rootMarker}, requested...)
	out.original = requested

	p, err := rt.resolve(requested, out)
	if err != nil {
		return err
	}
	if p == nil {
		out.noop = true
		return nil
	}

	err = rt.apply(ctx, p)

	if req.emit && !out.previous.Equal(rt.currentPath) {
		rt.emitChange(ctx, out, err != nil)
	}
	return err
}

// resolve plans the transition to requested and follows redirects. A nil plan
// means the resolved path is already active.
func (rt *Router) resolve(requested Path, out *outcome) (*plan, error) {
	for {
		p, err := rt.plan(requested)
		if err != nil || p == nil {
			return p, err
		}
		ri := p.redirectInfo(rt)
		if ri == nil {
			return p, nil
		}
		if out.redirects >= rt.maxRedirects {
			return nil, fmt.Errorf("%w: stopped after %d at %v", ErrRedirectLoop, out.redirects, requested[1:])
		}

		target, err := rt.toInternal(ri.target)
		if err != nil {
			return nil, fmt.Errorf("redirect target: %w", err)
		}
		out.redirects++
		out.emitOriginal = out.emitOriginal || ri.emitOriginal
		rt.stats.redirects.Inc()
		rt.metrics.redirect()
		rt.logger.Debug("following redirect",
			logger.From(requested[1:]),
			logger.Path(target))

		requested = append(Path{rootMarker}, target...)
	}
}

// apply runs the exit phase over chain[p.from:] and the enter phase over p.entries.
// Every step is committed as it happens; a failure leaves the partial result.
func (rt *Router) apply(ctx context.Context, p *plan) error {
	for i := len(rt.chain) - 1; i >= p.from; i-- {
		node := rt.chain[i].route
		if node.exit == nil {
			continue
		}
		err := rt.callExit(ctx, node, rt.valueAt(i-1), i-p.from+1)
		if err == nil {
			continue
		}
		if herr := rt.handleError(ctx, StageExit, rt.lineage(i), err); herr != nil {
			rt.commit(rt.chain[:i+1])
			return herr
		}
	}
	rt.commit(rt.chain[:p.from])

	for _, e := range p.entries {
		if e.route.enter != nil {
			v, err := rt.callEnter(ctx, e.route, rt.valueAt(len(rt.chain)-1))
			if err != nil {
				lineage := append(rt.lineage(len(rt.chain)-1), e.route)
				if herr := rt.handleError(ctx, StageEnter, lineage, err); herr != nil {
					return herr
				}
				rt.commit(append(rt.chain, e))
				return nil
			}
			e.route.value = v
		}
		rt.commit(append(rt.chain, e))
	}
	return nil
}

// handleError offers err to the error handlers of lineage, deepest first.
// lineage ends with the failing route. It returns nil once a handler absorbs the
// error, or a *HookError when none does.
func (rt *Router) handleError(ctx context.Context, stage Stage, lineage []*Route, err error) error {
	location := Path{}
	for i := len(lineage) - 1; i >= 0; i-- {
		node := lineage[i]
		if node.onError == nil {
			location = append(node.location(), location...)
			continue
		}

		herr := rt.callErrorHandler(ctx, node, err, ErrorInfo{Stage: stage, Location: location.clone()})
		if herr == nil {
			rt.metrics.hookError(stage, true)
			rt.logger.DebugContext(ctx, "hook error handled",
				logger.Stage(string(stage)),
				logger.Segment(node.location()),
				logger.Error(err))
			return nil
		}
		err = herr
		location = node.location()
	}

	rt.metrics.hookError(stage, false)
	trace.SpanFromContext(ctx).AddEvent("unhandled hook error", trace.WithAttributes(
		attribute.String("grapetree.stage", string(stage)),
		attribute.String("grapetree.location", location.String())))

	return &HookError{Stage: stage, Location: location, Err: err}
}

// lineage returns the routes of chain[:i+1].
func (rt *Router) lineage(i int) []*Route {
	routes := make([]*Route, 0, i+2)
	for _, e := range rt.chain[:i+1] {
		routes = append(routes, e.route)
	}
	return routes
}

// valueAt returns the enter value of chain[i], nil above the top-level route.
func (rt *Router) valueAt(i int) any {
	if i < 0 || i >= len(rt.chain) {
		return nil
	}
	return rt.chain[i].route.value
}

// commit replaces the active chain and recomputes the active path from it.
func (rt *Router) commit(chain []chainEntry) {
	next := make([]chainEntry, len(chain))
	copy(next, chain)
	path := make(Path, 0, len(rt.currentPath)+1)
	for _, e := range next {
		path = append(path, e.route.segment...)
	}

	rt.mu.Lock()
	rt.chain = next
	rt.currentPath = path
	rt.mu.Unlock()
}

func (rt *Router) emitChange(ctx context.Context, out *outcome, partial bool) {
	c := Change{
		Path:       rt.toExternal(rt.currentPath[1:]),
		Redirected: out.redirects > 0,
		Partial:    partial,
	}
	if out.emitOriginal && !partial {
		c.Path = rt.toExternal(out.original[1:])
	}
	if len(out.previous) > 0 {
		c.Previous = rt.toExternal(out.previous[1:])
	}

	ctx = context.WithoutCancel(ctx)
	if err := rt.emitter.Emit(ctx, ChangeEvent, c); err != nil {
		rt.logger.WarnContext(ctx, "change listener failed", logger.Path(c.Path), logger.Error(err))
	}
	if err := rt.broadcaster.Broadcast(ctx, broadcast.Message[Change]{Data: c}); err != nil {
		rt.logger.DebugContext(ctx, "change not broadcast", logger.Path(c.Path), logger.Error(err))
	}
}

// finish records the result of a run.
func (rt *Router) finish(ctx context.Context, span trace.Span, req *request, out *outcome, err error, d time.Duration) {
	defer span.End()

	result := resultOK
	switch {
	case err != nil:
		result = resultError
		rt.stats.failures.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case out.noop:
		result = resultNoop
		rt.stats.noops.Inc()
		span.SetStatus(codes.Ok, "")
	default:
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(
		attribute.String("grapetree.result", result),
		attribute.Int("grapetree.redirects", out.redirects))
	rt.metrics.transition(result, d)

	if err != nil {
		rt.logger.WarnContext(ctx, "transition failed",
			logger.Path(req.path),
			logger.Duration(d),
			logger.Error(err))
		return
	}
	rt.logger.DebugContext(ctx, "transition done",
		logger.Path(req.path),
		logger.Result(result),
		logger.Count("redirects", out.redirects),
		logger.Duration(d))
}

func (rt *Router) callEnter(ctx context.Context, r *Route, parent any) (v any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = toError(p)
		}
	}()
	return r.enter(ctx, parent)
}

func (rt *Router) callExit(ctx context.Context, r *Route, parent any, distance int) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = toError(p)
		}
	}()
	return r.exit(ctx, parent, distance)
}

func (rt *Router) callErrorHandler(ctx context.Context, r *Route, err error, info ErrorInfo) (herr error) {
	defer func() {
		if p := recover(); p != nil {
			herr = toError(p)
		}
	}()
	return r.onError(ctx, err, info)
}
