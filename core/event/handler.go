package event

import (
	"context"
	"fmt"
)

// HandlerFunc is a type-safe function signature for processing events of type T.
type HandlerFunc[T any] func(context.Context, T) error

// Handler processes events.
// Implementations are registered with an Emitter to handle specific event names.
type Handler interface {
	// EventName returns the event name this handler processes.
	EventName() string

	// Handle executes the handler with the given event payload.
	Handle(ctx context.Context, payload any) error
}

// NewHandler creates a new handler for the named event.
//
// Example:
//
//	handler := event.NewHandler("change", func(ctx context.Context, c Change) error {
//	    return render(ctx, c.Path)
//	})
func NewHandler[T any](eventName string, fn HandlerFunc[T]) Handler {
	return &handlerFuncWrapper[T]{
		name: eventName,
		fn:   fn,
	}
}

// handlerFuncWrapper is a generic, type-safe event handler implementation.
type handlerFuncWrapper[T any] struct {
	name string
	fn   HandlerFunc[T]
}

// EventName returns the event name this handler processes.
func (h *handlerFuncWrapper[T]) EventName() string {
	return h.name
}

// Handle executes the handler function with type-safe payload conversion.
// Returns ErrUnexpectedPayload if the payload is not a T.
func (h *handlerFuncWrapper[T]) Handle(ctx context.Context, payload any) error {
	typed, ok := payload.(T)
	if !ok {
		return fmt.Errorf("%w: %T for %s", ErrUnexpectedPayload, payload, h.name)
	}
	return h.fn(ctx, typed)
}
