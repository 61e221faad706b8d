// Package metrics exposes Prometheus collectors for the invoice actions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	actions      *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	cacheLookups *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		actions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoice_actions_total",
				Help: "Invoice form actions by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "invoice_action_duration_seconds",
				Help:    "Time spent handling an invoice form action",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
		cacheLookups: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "page_cache_lookups_total",
				Help: "Page cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveAction records one finished action. A nil receiver is a no-op.
func (m *Metrics) ObserveAction(action, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action, outcome).Inc()
	m.duration.WithLabelValues(action).Observe(d.Seconds())
}

// CacheLookup records a page cache hit or miss. A nil receiver is a no-op.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
