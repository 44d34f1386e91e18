package grapetree

import (
	"errors"
)

// errNoMatch marks a branch where neither a declaration nor a default matched.
// It is distinct from a successful traversal that produced no routes.
var errNoMatch = errors.New("no match")

// chainEntry is one active (or candidate) route with the absolute range of
// internal path tokens it consumed.
type chainEntry struct {
	route      *Route
	start, end int
}

// traverse matches remaining against node's declarations and descends into the
// first match. offset is the absolute index of remaining[0].
func (rt *Router) traverse(node *Route, remaining Path, offset int) ([]chainEntry, error) {
	for _, d := range node.decls {
		seg, err := rt.segmentOf(d.segment)
		if err != nil {
			return nil, err
		}
		n, ok := match(seg, remaining)
		if !ok {
			continue
		}

		child := newRoute(remaining[:n].clone())
		if err := runRouteFunc(d.fn, child, captures(seg, remaining)); err != nil {
			return nil, err
		}

		rest, err := rt.traverse(child, remaining[n:], offset+n)
		if errors.Is(err, errNoMatch) && node.fallback != nil {
			return rt.fallbackTo(node, remaining, offset)
		}
		if err != nil {
			return nil, err
		}
		return append([]chainEntry{{route: child, start: offset, end: offset + n}}, rest...), nil
	}

	switch {
	case len(remaining) == 0:
		return nil, nil
	case node.fallback != nil:
		return rt.fallbackTo(node, remaining, offset)
	default:
		return nil, errNoMatch
	}
}

// fallbackTo builds the default route of node. It consumes all of remaining,
// so nothing is traversed beneath it.
func (rt *Router) fallbackTo(node *Route, remaining Path, offset int) ([]chainEntry, error) {
	child := newRoute(remaining.clone())
	child.isDefault = true
	if err := runDefaultFunc(node.fallback, child, rt.toExternal(remaining)); err != nil {
		return nil, err
	}
	return []chainEntry{{route: child, start: offset, end: offset + len(remaining)}}, nil
}

func runRouteFunc(fn RouteFunc, r *Route, params []Token) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = toError(v)
		}
	}()
	if ferr := fn(r, params...); ferr != nil {
		return ferr
	}
	return r.err()
}

func runDefaultFunc(fn DefaultFunc, r *Route, remainder any) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = toError(v)
		}
	}()
	if ferr := fn(r, remainder); ferr != nil {
		return ferr
	}
	return r.err()
}

// plan is a resolved transition: the active routes from index from onwards exit,
// entries are entered.
type plan struct {
	requested Path
	from      int
	entries   []chainEntry
}

// plan computes the divergence between the active path and requested and
// traverses the tree from there. It returns nil for identical paths.
func (rt *Router) plan(requested Path) (*plan, error) {
	d, diverged := rt.currentPath.divergence(requested)
	if !diverged {
		return nil, nil
	}

	from := rt.routeIndex(d)
	start := rt.tokenStart(from)
	entries, err := rt.traverse(rt.parentAt(from), requested[start:], start)
	if err == nil {
		return &plan{requested: requested, from: from, entries: entries}, nil
	}
	if !errors.Is(err, errNoMatch) {
		return nil, err
	}

	// The parent had no default; fall back to the nearest active ancestor's.
	for j := from - 2; j >= 0; j-- {
		ancestor := rt.chain[j].route
		if ancestor.fallback == nil {
			continue
		}
		from = j + 1
		start = rt.tokenStart(from)
		entries, err := rt.fallbackTo(ancestor, requested[start:], start)
		if err != nil {
			return nil, err
		}
		return &plan{requested: requested, from: from, entries: entries}, nil
	}

	return nil, &NoRouteError{Path: rt.toExternal(requested[1:])}
}

// redirectInfo returns the redirect of the deepest produced route, or of the
// route at the divergence point when nothing was produced.
func (p *plan) redirectInfo(rt *Router) *redirectInfo {
	if n := len(p.entries); n > 0 {
		return p.entries[n-1].route.redirect
	}
	return rt.parentAt(p.from).redirect
}

// routeIndex maps a token index to the active route containing it, or to
// len(chain) when the token lies past the active path.
func (rt *Router) routeIndex(tokenIndex int) int {
	for i, e := range rt.chain {
		if tokenIndex >= e.start && tokenIndex < e.end {
			return i
		}
	}
	return len(rt.chain)
}

func (rt *Router) tokenStart(routeIndex int) int {
	if routeIndex < len(rt.chain) {
		return rt.chain[routeIndex].start
	}
	return len(rt.currentPath)
}

// parentAt returns the route whose declarations produce chain[routeIndex].
func (rt *Router) parentAt(routeIndex int) *Route {
	if routeIndex == 0 {
		return rt.topDeclaration()
	}
	return rt.chain[routeIndex-1].route
}

// topDeclaration is the synthetic route whose only child is the top-level route.
func (rt *Router) topDeclaration() *Route {
	top := newRoute(nil)
	top.decls = []declaration{{
		segment: Path{rootMarker},
		fn: func(r *Route, _ ...Token) error {
			r.topLevel = true
			return rt.define(r)
		},
	}}
	return top
}
