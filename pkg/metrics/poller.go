package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PollerMetrics records behavior of the order-status poller.
type PollerMetrics struct {
	duration    *prometheus.HistogramVec
	failures    *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewPollerMetrics registers the poller metrics on the provided registerer.
func NewPollerMetrics(reg prometheus.Registerer) *PollerMetrics {
	if reg == nil {
		return &PollerMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_poll_duration_seconds",
		Help:    "Duration of order status fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_poll_failures",
		Help: "Order status fetches that failed and retained the previous classification.",
	}, []string{"reason"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_stage_transitions",
		Help: "Observed order stage transitions, labeled by the stage entered.",
	}, []string{"stage"})
	reg.MustRegister(duration, failures, transitions)
	return &PollerMetrics{
		duration:    duration,
		failures:    failures,
		transitions: transitions,
	}
}

// ObservePoll records the duration of one fetch attempt.
func (p *PollerMetrics) ObservePoll(outcome string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncFailure counts a failed fetch.
func (p *PollerMetrics) IncFailure(reason string) {
	if p == nil || p.failures == nil {
		return
	}
	p.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncTransition counts entry into a stage.
func (p *PollerMetrics) IncTransition(stage string) {
	if p == nil || p.transitions == nil {
		return
	}
	p.transitions.WithLabelValues(normalizeLabel(stage)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
