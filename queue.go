package grapetree

import (
	"context"

	"github.com/dmitrymomot/grapetree/pkg/async"
)

// request is one call to Go waiting for, or undergoing, its transition.
type request struct {
	ctx    context.Context
	path   any
	emit   bool
	soft   bool
	future *async.ExecFuture
}

// GoOption configures a single Go call.
type GoOption func(*request)

// WithEmit controls whether the transition publishes a change notification.
// Defaults to true.
func WithEmit(emit bool) GoOption {
	return func(r *request) {
		r.emit = emit
	}
}

// WithSoftQueue controls what happens when the request has to wait behind a running
// transition. A soft request is dropped when a newer soft request arrives before it
// starts; a hard request (soft=false) always runs. Defaults to true.
func WithSoftQueue(soft bool) GoOption {
	return func(r *request) {
		r.soft = soft
	}
}

// transitionQueue holds requests that arrived while a transition was running.
// It is guarded by Router.mu.
type transitionQueue struct {
	items []*request
}

// push appends req. A soft request replaces a soft tail, which is returned so
// the caller can reject it.
func (q *transitionQueue) push(req *request) (dropped *request) {
	if n := len(q.items); req.soft && n > 0 && q.items[n-1].soft {
		dropped = q.items[n-1]
		q.items[n-1] = req
		return dropped
	}
	q.items = append(q.items, req)
	return nil
}

// pop returns the oldest hard request if there is one. Otherwise it returns the
// newest soft request and drops every other queued request.
func (q *transitionQueue) pop() (next *request, dropped []*request) {
	for i, item := range q.items {
		if !item.soft {
			q.items = append(q.items[:i:i], q.items[i+1:]...)
			return item, nil
		}
	}
	n := len(q.items)
	if n == 0 {
		return nil, nil
	}
	next, dropped = q.items[n-1], q.items[:n-1]
	q.items = nil
	return next, dropped
}

// drainAll empties the queue.
func (q *transitionQueue) drainAll() []*request {
	items := q.items
	q.items = nil
	return items
}

func (q *transitionQueue) len() int {
	return len(q.items)
}
