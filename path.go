package grapetree

import (
	"fmt"
	"reflect"
	"strings"
)

// Token is one element of a Path. Any value can be a token.
type Token = any

// Path is an ordered sequence of tokens identifying a location in the route tree.
type Path []Token

type paramToken struct{}

func (paramToken) String() string { return ":param" }

// Param marks a declaration position that matches any single token and captures it.
var Param Token = paramToken{}

// rootToken is the synthetic zero-th token of every internal path.
// It never leaves the package.
type rootToken struct{}

func (rootToken) String() string { return "<root>" }

var rootMarker Token = rootToken{}

// IsParam reports whether t is the Param sentinel.
func IsParam(t Token) bool {
	_, ok := t.(paramToken)
	return ok
}

// tokenEqual compares tokens with == where the dynamic types allow it and falls
// back to reflect.DeepEqual for slices, maps and structs holding them.
func tokenEqual(a, b Token) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return comparableEqual(a, b)
	}
	return reflect.DeepEqual(a, b)
}

// comparableEqual guards against interface fields holding uncomparable values.
func comparableEqual(a, b Token) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}

// Equal reports whether both paths hold equal tokens in the same order.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !tokenEqual(p[i], other[i]) {
			return false
		}
	}
	return true
}

// String renders the path for logs and errors.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, t := range p {
		parts[i] = fmt.Sprint(t)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (p Path) clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// divergence returns the first index at which p and other differ.
// ok is false when the paths are identical.
func (p Path) divergence(other Path) (int, bool) {
	n := min(len(p), len(other))
	for i := 0; i < n; i++ {
		if !tokenEqual(p[i], other[i]) {
			return i, true
		}
	}
	if len(p) == len(other) {
		return 0, false
	}
	return n, true
}

// asPath converts caller-supplied values into a Path.
func asPath(v any) (Path, bool) {
	switch p := v.(type) {
	case Path:
		return p.clone(), true
	case []any:
		return Path(p).clone(), true
	case []string:
		out := make(Path, len(p))
		for i, s := range p {
			out[i] = s
		}
		return out, true
	case []int:
		out := make(Path, len(p))
		for i, n := range p {
			out[i] = n
		}
		return out, true
	default:
		return nil, false
	}
}

// match reports how many tokens of remaining the segment consumes.
// A Param position needs a non-nil token; everything else must be equal.
// The segment must be consumed entirely, remaining need not be.
func match(segment, remaining Path) (int, bool) {
	if len(segment) > len(remaining) {
		return 0, false
	}
	for n, part := range segment {
		if IsParam(part) {
			if remaining[n] == nil {
				return 0, false
			}
			continue
		}
		if !tokenEqual(part, remaining[n]) {
			return 0, false
		}
	}
	return len(segment), true
}

// captures returns the tokens sitting at Param positions, left to right.
func captures(segment, remaining Path) []Token {
	var params []Token
	for n, part := range segment {
		if IsParam(part) {
			params = append(params, remaining[n])
		}
	}
	return params
}
