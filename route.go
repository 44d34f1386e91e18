package grapetree

import (
	"context"
	"errors"
)

// RouteFunc configures a freshly matched route. It receives one captured token per
// Param in the declaration segment, left to right. A returned error fails the
// transition before any hook runs.
type RouteFunc func(r *Route, params ...Token) error

// DefaultFunc configures the route built for an unmatched remainder.
// remainder is in external representation when a transform is installed.
type DefaultFunc func(r *Route, remainder any) error

// EnterFunc runs when a route becomes active. parent is the value returned by the
// parent route's enter hook; the returned value is handed to the children.
type EnterFunc func(ctx context.Context, parent any) (any, error)

// ExitFunc runs when a route stops being active. distance is 1 for the shallowest
// route being left and grows towards the leaf.
type ExitFunc func(ctx context.Context, parent any, distance int) error

// ErrorFunc receives hook errors raised at or below its route.
// Returning nil absorbs the error; returning an error hands it to the next ancestor.
type ErrorFunc func(ctx context.Context, err error, info ErrorInfo) error

type declaration struct {
	segment any
	fn      RouteFunc
}

type redirectInfo struct {
	target       any
	emitOriginal bool
}

// RedirectOption configures a redirect.
type RedirectOption func(*redirectInfo)

// EmitOriginalPath makes the change notification carry the requested path instead
// of the redirect target.
func EmitOriginalPath() RedirectOption {
	return func(ri *redirectInfo) {
		ri.emitOriginal = true
	}
}

// Route is one matched segment of a path and the builder handed to declaration
// handlers. Routes are rebuilt on every traversal; nothing about a Route survives
// the transition that discards it.
type Route struct {
	segment  Path
	decls    []declaration
	enter    EnterFunc
	exit     ExitFunc
	onError  ErrorFunc
	fallback DefaultFunc
	redirect *redirectInfo

	topLevel  bool
	isDefault bool

	// value is the last result of the enter hook
	value any

	errs []error
}

func newRoute(segment Path) *Route {
	return &Route{segment: segment}
}

// Route declares a child route. segment is a Path, a slice of tokens, or a single
// token. Declarations are matched in registration order; the first match wins.
func (r *Route) Route(segment any, fn RouteFunc) {
	if fn == nil {
		r.fail(ErrNilHandler)
		return
	}
	r.decls = append(r.decls, declaration{segment: segment, fn: fn})
}

// Enter sets the hook run when the route is entered.
func (r *Route) Enter(fn EnterFunc) {
	switch {
	case fn == nil:
		r.fail(ErrNilHandler)
	case r.enter != nil:
		r.fail(ErrDuplicateEnter)
	default:
		r.enter = fn
	}
}

// Exit sets the hook run when the route is left.
func (r *Route) Exit(fn ExitFunc) {
	switch {
	case r.topLevel:
		r.fail(ErrRootExit)
	case fn == nil:
		r.fail(ErrNilHandler)
	case r.exit != nil:
		r.fail(ErrDuplicateExit)
	default:
		r.exit = fn
	}
}

// OnError sets the handler for hook errors raised in this route's subtree.
func (r *Route) OnError(fn ErrorFunc) {
	switch {
	case fn == nil:
		r.fail(ErrNilHandler)
	case r.onError != nil:
		r.fail(ErrDuplicateErrorHandler)
	default:
		r.onError = fn
	}
}

// Default sets the handler for a non-empty remainder no declaration matches.
// The default route consumes the whole remainder.
func (r *Route) Default(fn DefaultFunc) {
	switch {
	case fn == nil:
		r.fail(ErrNilHandler)
	case r.fallback != nil:
		r.fail(ErrDuplicateDefault)
	case r.redirect != nil:
		r.fail(ErrDefaultRedirectConflict)
	default:
		r.fallback = fn
	}
}

// Redirect resolves a path ending at this route to target before any hook runs.
func (r *Route) Redirect(target any, opts ...RedirectOption) {
	switch {
	case r.redirect != nil:
		r.fail(ErrDuplicateRedirect)
	case r.fallback != nil:
		r.fail(ErrDefaultRedirectConflict)
	default:
		ri := &redirectInfo{target: target}
		for _, opt := range opts {
			opt(ri)
		}
		r.redirect = ri
	}
}

// Segment returns the tokens this route consumed, parameters resolved.
func (r *Route) Segment() Path {
	return r.segment.clone()
}

// Value returns the last value produced by the route's enter hook.
func (r *Route) Value() any {
	return r.value
}

func (r *Route) fail(err error) {
	r.errs = append(r.errs, err)
}

func (r *Route) err() error {
	return errors.Join(r.errs...)
}

// location is the segment this route adds to an ErrorInfo location.
// The top-level route adds nothing.
func (r *Route) location() Path {
	if r.topLevel {
		return Path{}
	}
	return r.segment.clone()
}
