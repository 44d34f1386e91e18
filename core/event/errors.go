package event

import "errors"

var (
	// ErrNilHandler is returned when registering a nil handler.
	ErrNilHandler = errors.New("event handler is nil")

	// ErrUnexpectedPayload is returned when a payload does not match the handler's type.
	ErrUnexpectedPayload = errors.New("unexpected payload type")
)
