package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Checkout outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeEmpty    = "empty"
	OutcomeNoLines  = "no_lines"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// CheckoutMetrics tracks basket handoffs to the storefront.
type CheckoutMetrics struct {
	attempts           *prometheus.CounterVec
	resolutionFailures *prometheus.CounterVec
	assembly           prometheus.Histogram
	cacheHits          *prometheus.CounterVec
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	resolutionFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_resolution_failures_total",
		Help: "Catalog lookups that did not find a product, by kind (product, postage, category).",
	}, []string{"kind"})
	assembly := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_assembly_duration_seconds",
		Help:    "Time spent resolving and assembling checkout lines.",
		Buckets: prometheus.DefBuckets,
	})
	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_variant_cache_lookups_total",
		Help: "Variant cache lookups by result (hit, miss).",
	}, []string{"result"})
	reg.MustRegister(attempts, resolutionFailures, assembly, cacheHits)
	return &CheckoutMetrics{
		attempts:           attempts,
		resolutionFailures: resolutionFailures,
		assembly:           assembly,
		cacheHits:          cacheHits,
	}
}

func (c *CheckoutMetrics) IncAttempt(outcome string) {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (c *CheckoutMetrics) IncResolutionFailure(kind string) {
	if c == nil || c.resolutionFailures == nil {
		return
	}
	c.resolutionFailures.WithLabelValues(normalizeLabel(kind)).Inc()
}

func (c *CheckoutMetrics) ObserveAssembly(d time.Duration) {
	if c == nil || c.assembly == nil {
		return
	}
	c.assembly.Observe(d.Seconds())
}

// ObserveCacheLookup counts a variant cache hit or miss.
func (c *CheckoutMetrics) ObserveCacheLookup(hit bool) {
	if c == nil || c.cacheHits == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheHits.WithLabelValues(result).Inc()
}
