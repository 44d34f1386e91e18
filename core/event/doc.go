// Package event provides named, type-safe event handlers dispatched synchronously
// by an Emitter.
//
// # Core Components
//
// Event represents an occurrence with metadata (ID, Name, Payload, CreatedAt).
// Events are assigned UUIDs and timestamps upon creation.
//
// Handler processes the payload of one named event. NewHandler adapts a typed
// function; a payload of any other type fails with ErrUnexpectedPayload.
//
// Emitter keeps handlers per event name and runs them in registration order in the
// caller's goroutine. Handler errors and panics are collected and returned joined,
// so one failing handler never prevents the others from running.
//
// # Basic Usage
//
//	em := event.NewEmitter(event.WithLogger(log))
//
//	off, err := em.On(event.NewHandler("change", func(ctx context.Context, c Change) error {
//		return render(ctx, c.Path)
//	}))
//	if err != nil {
//		return err
//	}
//	defer off()
//
//	if err := em.Emit(ctx, "change", Change{Path: "a.b"}); err != nil {
//		log.Error("listener failed", logger.Error(err))
//	}
package event
