package routetable

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrymomot/grapetree"
)

// Observer receives every hook a compiled table runs.
type Observer interface {
	Entered(ctx context.Context, name string, parent any, params []grapetree.Token)
	Exited(ctx context.Context, name string, parent any, distance int)
	Caught(ctx context.Context, name string, err error, info grapetree.ErrorInfo)
}

// Option configures Compile.
type Option func(*compiler)

// WithSeparator joins redirect targets with sep, for routers using a
// DelimitedTransform with the same separator.
func WithSeparator(sep string) Option {
	return func(c *compiler) {
		c.sep = sep
	}
}

type compiler struct {
	obs Observer
	sep string
}

// Compile turns t into the RouteFunc of a router's top-level route. Enter hooks
// return the route name, so each hook sees its parent's name as parent value.
func Compile(t *Table, obs Observer, opts ...Option) grapetree.RouteFunc {
	c := &compiler{obs: obs}
	for _, opt := range opts {
		opt(c)
	}

	root := Entry{
		Name:      t.Name,
		Catch:     t.Catch,
		FailEnter: t.FailEnter,
		Default:   t.Default,
		Routes:    t.Routes,
	}
	return func(r *grapetree.Route, params ...grapetree.Token) error {
		return c.configure(r, root, params, true)
	}
}

func (c *compiler) routeFunc(e Entry) grapetree.RouteFunc {
	return func(r *grapetree.Route, params ...grapetree.Token) error {
		return c.configure(r, e, params, false)
	}
}

func (c *compiler) configure(r *grapetree.Route, e Entry, params []grapetree.Token, top bool) error {
	name := e.name()

	r.Enter(c.enter(name, e.FailEnter, params))
	if !top {
		r.Exit(c.exit(name, e.FailExit))
	}
	if e.Catch {
		r.OnError(func(ctx context.Context, err error, info grapetree.ErrorInfo) error {
			if c.obs != nil {
				c.obs.Caught(ctx, name, err, info)
			}
			return nil
		})
	}

	for _, child := range e.Routes {
		r.Route(segment(child.Segment), c.routeFunc(child))
	}
	if e.Default != nil {
		r.Default(c.fallback(*e.Default))
	}
	if len(e.Redirect) > 0 {
		var opts []grapetree.RedirectOption
		if e.EmitOriginal {
			opts = append(opts, grapetree.EmitOriginalPath())
		}
		r.Redirect(c.target(e.Redirect), opts...)
	}
	return nil
}

func (c *compiler) fallback(f Fallback) grapetree.DefaultFunc {
	return func(r *grapetree.Route, remainder any) error {
		name := f.Name
		if name == "" {
			name = "default"
		}
		r.Enter(c.enter(name, f.FailEnter, []grapetree.Token{remainder}))
		r.Exit(c.exit(name, f.FailExit))
		return nil
	}
}

func (c *compiler) enter(name string, fail bool, params []grapetree.Token) grapetree.EnterFunc {
	return func(ctx context.Context, parent any) (any, error) {
		if c.obs != nil {
			c.obs.Entered(ctx, name, parent, params)
		}
		if fail {
			return nil, fmt.Errorf("enter %s: %w", name, ErrInjected)
		}
		return name, nil
	}
}

func (c *compiler) exit(name string, fail bool) grapetree.ExitFunc {
	return func(ctx context.Context, parent any, distance int) error {
		if c.obs != nil {
			c.obs.Exited(ctx, name, parent, distance)
		}
		if fail {
			return fmt.Errorf("exit %s: %w", name, ErrInjected)
		}
		return nil
	}
}

func (c *compiler) target(tokens []string) any {
	if c.sep != "" {
		return strings.Join(tokens, c.sep)
	}
	return tokens
}

// segment converts table tokens to a declaration Path.
func segment(tokens []string) grapetree.Path {
	p := make(grapetree.Path, len(tokens))
	for i, tok := range tokens {
		if tok == ParamToken {
			p[i] = grapetree.Param
			continue
		}
		p[i] = tok
	}
	return p
}
