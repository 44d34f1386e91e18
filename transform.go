package grapetree

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Transform converts between the caller's path representation and internal Paths.
// ToInternal is applied to Go arguments, redirect targets and bare declaration
// segments; ToExternal to change notifications, Current and default remainders.
type Transform struct {
	ToExternal func(internal Path) any
	ToInternal func(external any) (Path, error)
}

func (t Transform) valid() bool {
	return t.ToExternal != nil && t.ToInternal != nil
}

// DelimitedTransform represents paths as strings joined by sep, e.g. "a.b.c".
// The empty string is the empty path. Incoming tokens are NFC normalized so that
// visually identical segments compare equal.
func DelimitedTransform(sep string) Transform {
	return Transform{
		ToExternal: func(internal Path) any {
			parts := make([]string, len(internal))
			for i, t := range internal {
				parts[i] = fmt.Sprint(t)
			}
			return strings.Join(parts, sep)
		},
		ToInternal: func(external any) (Path, error) {
			s, ok := external.(string)
			if !ok {
				return nil, fmt.Errorf("%w: got %T, want string", ErrInvalidPath, external)
			}
			if s == "" {
				return Path{}, nil
			}
			parts := strings.Split(s, sep)
			out := make(Path, len(parts))
			for i, part := range parts {
				out[i] = norm.NFC.String(part)
			}
			return out, nil
		},
	}
}

// TransformPath installs a path transform. Both directions are required.
func (rt *Router) TransformPath(t Transform) error {
	if !t.valid() {
		return ErrInvalidTransform
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.transform = &t
	return nil
}

func (rt *Router) currentTransform() *Transform {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.transform
}

// toInternal converts a caller path. Without a transform only slices are accepted.
func (rt *Router) toInternal(v any) (Path, error) {
	if t := rt.currentTransform(); t != nil {
		p, err := t.ToInternal(v)
		if err != nil {
			return nil, err
		}
		return p.clone(), nil
	}
	p, ok := asPath(v)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidPath, v)
	}
	return p, nil
}

// toExternal converts an internal path with the root marker already stripped.
func (rt *Router) toExternal(p Path) any {
	if t := rt.currentTransform(); t != nil {
		return t.ToExternal(p.clone())
	}
	return p.clone()
}

// segmentOf normalizes a declaration segment at match time.
func (rt *Router) segmentOf(seg any) (Path, error) {
	if p, ok := asPath(seg); ok {
		return p, nil
	}
	if IsParam(seg) {
		return Path{seg}, nil
	}
	if t := rt.currentTransform(); t != nil {
		p, err := t.ToInternal(seg)
		if err != nil {
			return nil, fmt.Errorf("route segment %v: %w", seg, err)
		}
		return p, nil
	}
	return Path{seg}, nil
}
