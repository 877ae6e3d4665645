package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the mount pipeline's prometheus instruments. A nil
// *Metrics records nothing.
type Metrics struct {
	mounts         *prometheus.CounterVec
	unmounts       prometheus.Counter
	mismatches     prometheus.Counter
	teardownErrors prometheus.Counter
	renderDuration *prometheus.HistogramVec
}

// NewMetrics registers the instruments with reg under namespace. A nil reg
// uses prometheus.DefaultRegisterer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "lumen"
	}
	factory := promauto.With(reg)

	return &Metrics{
		mounts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mounts_total",
			Help:      "Total number of root mounts",
		}, []string{"mode"}),

		unmounts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unmounts_total",
			Help:      "Total number of root unmounts",
		}),

		mismatches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hydration_mismatches_total",
			Help:      "Total number of recovered hydration mismatches",
		}),

		teardownErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "teardown_errors_total",
			Help:      "Total number of unmounts whose destructors failed",
		}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of top-level render pipelines in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

func (m *Metrics) mounted(ssr bool, mismatches int) {
	if m == nil {
		return
	}
	mode := "create"
	if ssr {
		mode = "hydrate"
	}
	m.mounts.WithLabelValues(mode).Inc()
	m.mismatches.Add(float64(mismatches))
}

func (m *Metrics) unmounted(err error) {
	if m == nil {
		return
	}
	m.unmounts.Inc()
	if err != nil {
		m.teardownErrors.Inc()
	}
}

// Observe records the duration of a render pipeline started at start.
func (m *Metrics) Observe(op string, start time.Time) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
