package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CommissionMetrics records commission engine outcomes.
type CommissionMetrics struct {
	duration *prometheus.HistogramVec
	credits  *prometheus.CounterVec
	skips    *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewCommissionMetrics registers the commission metrics on the provided registerer.
func NewCommissionMetrics(reg prometheus.Registerer) *CommissionMetrics {
	if reg == nil {
		return &CommissionMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "commission_run_duration_seconds",
		Help:    "Duration of commission runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	credits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commission_credits_total",
		Help: "Activity rows credited by commission runs.",
	}, []string{"level"})
	skips := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commission_skips_total",
		Help: "Upline/variant pairs skipped during commission runs.",
	}, []string{"reason"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commission_run_failures_total",
		Help: "Commission runs that rolled back.",
	}, []string{"reason"})
	reg.MustRegister(duration, credits, skips, failures)
	return &CommissionMetrics{
		duration: duration,
		credits:  credits,
		skips:    skips,
		failures: failures,
	}
}

// ObserveRun records the duration for a run with the given outcome.
func (c *CommissionMetrics) ObserveRun(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncCredits counts credited activity rows at the given level.
func (c *CommissionMetrics) IncCredits(level string, n int) {
	if c == nil || c.credits == nil || n <= 0 {
		return
	}
	c.credits.WithLabelValues(normalizeLabel(level)).Add(float64(n))
}

// IncSkip counts a skipped upline/variant pair.
func (c *CommissionMetrics) IncSkip(reason string) {
	if c == nil || c.skips == nil {
		return
	}
	c.skips.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncFailure counts a failed (rolled back) run.
func (c *CommissionMetrics) IncFailure(reason string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
