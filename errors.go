package grapetree

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Configuration errors, recorded while a declaration handler builds its route.
var (
	ErrDuplicateEnter          = errors.New("only one `enter` call allowed per route")
	ErrDuplicateExit           = errors.New("only one `exit` call allowed per route")
	ErrDuplicateErrorHandler   = errors.New("only one `error` call allowed per route")
	ErrDuplicateDefault        = errors.New("only one `default` call allowed per route")
	ErrDuplicateRedirect       = errors.New("only one `redirect` call allowed per route")
	ErrDefaultRedirectConflict = errors.New("`default` and `redirect` can't both be set on a route")
	ErrRootExit                = errors.New("exit handlers can't be set up for the top-level router, because it never exits")
	ErrNilHandler              = errors.New("passed handler is not a function")
)

// Routing and runtime errors.
var (
	ErrNoRouteMatched   = errors.New("no route matched")
	ErrInvalidPath      = errors.New("a path passed to `go` must be a Path")
	ErrInvalidTransform = errors.New("path transform requires both toExternal and toInternal")
	ErrRedirectLoop     = errors.New("too many redirects")
	ErrSuperseded       = errors.New("transition superseded by a newer request")
	ErrRouterClosed     = errors.New("router is closed")
)

// Stage names the phase of a transition in which a hook failed.
type Stage string

const (
	StageEnter Stage = "enter"
	StageExit  Stage = "exit"
)

// ErrorInfo describes where a hook error happened relative to the handler that receives it.
// Location lists the segments between the handler's route and the failing route;
// it is empty when the failing route handles its own error.
type ErrorInfo struct {
	Stage    Stage
	Location Path
}

// NoRouteError is returned by Go when neither a declaration nor a default matches.
type NoRouteError struct {
	// Path is the requested path in external representation.
	Path any
}

func (e *NoRouteError) Error() string {
	b, err := json.Marshal(e.Path)
	if err != nil {
		return fmt.Sprintf("No route matched path: %v", e.Path)
	}
	return "No route matched path: " + string(b)
}

// Is makes errors.Is(err, ErrNoRouteMatched) hold.
func (e *NoRouteError) Is(target error) bool {
	return target == ErrNoRouteMatched
}

// HookError is an enter or exit hook failure that no error handler absorbed.
type HookError struct {
	Stage    Stage
	Location Path
	Err      error
}

func (e *HookError) Error() string {
	if len(e.Location) == 0 {
		return fmt.Sprintf("%s hook: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s hook at %v: %v", e.Stage, e.Location, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// toError converts a recovered panic value to an error.
func toError(v any) error {
	switch e := v.(type) {
	case error:
		return e
	case string:
		return errors.New(e)
	default:
		return fmt.Errorf("panic: %v", e)
	}
}
