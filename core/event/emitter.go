package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/grapetree/core/logger"
)

// Emitter dispatches events synchronously in the caller's goroutine.
// Handlers run in registration order; every handler runs even if an earlier one fails.
type Emitter struct {
	mu       sync.RWMutex
	handlers map[string][]*registration
	logger   *slog.Logger
}

type registration struct {
	handler Handler
}

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithLogger sets the logger used to report handler failures.
func WithLogger(l *slog.Logger) EmitterOption {
	return func(e *Emitter) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEmitter creates an Emitter with no handlers.
func NewEmitter(opts ...EmitterOption) *Emitter {
	e := &Emitter{
		handlers: make(map[string][]*registration),
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// On registers handlers and returns a function removing them again.
// The returned function is safe to call more than once.
func (e *Emitter) On(handlers ...Handler) (unsubscribe func(), err error) {
	for _, h := range handlers {
		if h == nil {
			return nil, ErrNilHandler
		}
	}

	regs := make([]*registration, len(handlers))
	e.mu.Lock()
	for i, h := range handlers {
		regs[i] = &registration{handler: h}
		e.handlers[h.EventName()] = append(e.handlers[h.EventName()], regs[i])
	}
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			for _, reg := range regs {
				e.remove(reg)
			}
		})
	}, nil
}

func (e *Emitter) remove(reg *registration) {
	name := reg.handler.EventName()
	list := e.handlers[name]
	for i, r := range list {
		if r == reg {
			e.handlers[name] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(e.handlers[name]) == 0 {
		delete(e.handlers, name)
	}
}

// Emit wraps payload in an Event and runs every handler registered for name.
// Handler errors and panics are collected and returned joined.
func (e *Emitter) Emit(ctx context.Context, name string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	evt := NewEvent(name, payload)

	e.mu.RLock()
	regs := append([]*registration(nil), e.handlers[name]...)
	e.mu.RUnlock()

	var errs []error
	for _, reg := range regs {
		if err := safeHandle(ctx, reg.handler, evt.Payload); err != nil {
			e.logger.ErrorContext(ctx, "event handler failed",
				logger.Event(evt.Name),
				slog.String("event_id", evt.ID),
				logger.Error(err))
			errs = append(errs, fmt.Errorf("handler %s failed: %w", reg.handler.EventName(), err))
		}
	}
	return errors.Join(errs...)
}

// ListenerCount returns the number of handlers registered for name.
func (e *Emitter) ListenerCount(name string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers[name])
}

// safeHandle converts a handler panic to an error.
func safeHandle(ctx context.Context, h Handler, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, payload)
}
