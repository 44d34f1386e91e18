package grapetree

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger for transition and hook activity.
// The default logger discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Router) {
		if l != nil {
			rt.logger = l
		}
	}
}

// WithMaxRedirects bounds how many redirects one transition may follow.
// Values below 1 are ignored.
func WithMaxRedirects(n int) Option {
	return func(rt *Router) {
		if n > 0 {
			rt.maxRedirects = n
		}
	}
}

// WithBroadcastBuffer sets the channel buffer of each Subscribe subscriber.
func WithBroadcastBuffer(n int) Option {
	return func(rt *Router) {
		if n >= 0 {
			rt.broadcastBuffer = n
		}
	}
}

// WithTransform installs a path transform at construction time.
// An incomplete transform makes every Go call fail with ErrInvalidTransform.
func WithTransform(t Transform) Option {
	return func(rt *Router) {
		if !t.valid() {
			rt.err = ErrInvalidTransform
			return
		}
		rt.transform = &t
	}
}

// WithMetrics registers Prometheus collectors for transitions on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(rt *Router) {
		if reg != nil {
			rt.metrics = newMetrics(reg)
		}
	}
}

// WithTracer sets the tracer that records one span per transition.
// The default is the global provider's tracer.
func WithTracer(t trace.Tracer) Option {
	return func(rt *Router) {
		if t != nil {
			rt.tracer = t
		}
	}
}

// WithConfig applies cfg. Options given after it override its values.
func WithConfig(cfg Config) Option {
	return func(rt *Router) {
		WithMaxRedirects(cfg.MaxRedirects)(rt)
		WithBroadcastBuffer(cfg.BroadcastBuffer)(rt)
		if cfg.Separator != "" {
			WithTransform(DelimitedTransform(cfg.Separator))(rt)
		}
		if cfg.TracerName != "" {
			rt.tracer = otel.Tracer(cfg.TracerName)
		}
	}
}
