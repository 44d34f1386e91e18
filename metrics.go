package grapetree

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transition results used as metric labels and span attributes.
const (
	resultOK         = "ok"
	resultNoop       = "noop"
	resultError      = "error"
	resultCanceled   = "canceled"
	resultSuperseded = "superseded"
	resultClosed     = "closed"
)

// metrics holds the Prometheus collectors of one router. A nil *metrics records nothing.
type metrics struct {
	transitions *prometheus.CounterVec
	duration    prometheus.Histogram
	redirects   prometheus.Counter
	hookErrors  *prometheus.CounterVec
	queueDepth  prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grapetree",
			Name:      "transitions_total",
			Help:      "Total number of transition requests by result",
		}, []string{"result"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "grapetree",
			Name:      "transition_duration_seconds",
			Help:      "Transition duration in seconds, hooks included",
			Buckets:   prometheus.DefBuckets,
		}),

		redirects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "grapetree",
			Name:      "redirects_total",
			Help:      "Total number of redirects followed",
		}),

		hookErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grapetree",
			Name:      "hook_errors_total",
			Help:      "Total number of enter/exit hook errors by stage and outcome",
		}, []string{"stage", "handled"}),

		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "grapetree",
			Name:      "queue_depth",
			Help:      "Number of requests waiting behind the running transition",
		}),
	}
}

func (m *metrics) transition(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(result).Inc()
	if result == resultOK || result == resultError {
		m.duration.Observe(d.Seconds())
	}
}

func (m *metrics) redirect() {
	if m == nil {
		return
	}
	m.redirects.Inc()
}

func (m *metrics) hookError(stage Stage, handled bool) {
	if m == nil {
		return
	}
	h := "false"
	if handled {
		h = "true"
	}
	m.hookErrors.WithLabelValues(string(stage), h).Inc()
}

func (m *metrics) queued(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}
