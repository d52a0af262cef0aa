package metrics

import "github.com/prometheus/client_golang/prometheus"

// BreakerMetrics exposes circuit breaker state (0=closed, 1=half-open, 2=open).
type BreakerMetrics struct {
	state *prometheus.GaugeVec
}

func NewBreakerMetrics(reg prometheus.Registerer) *BreakerMetrics {
	if reg == nil {
		return &BreakerMetrics{}
	}
	state := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open).",
	}, []string{"name"})
	reg.MustRegister(state)
	return &BreakerMetrics{state: state}
}

func (b *BreakerMetrics) SetState(name string, value float64) {
	if b == nil || b.state == nil {
		return
	}
	b.state.WithLabelValues(normalizeLabel(name)).Set(value)
}
