package async

import "errors"

var (
	// ErrTimeout is returned when AwaitWithTimeout exceeds its duration.
	ErrTimeout = errors.New("async: timeout waiting for future")

	// ErrNoFutures is returned when ExecAny is called with no futures.
	ErrNoFutures = errors.New("async: no futures provided")
)
