package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NotificationMetrics records best-effort side-channel deliveries.
type NotificationMetrics struct {
	duration *prometheus.HistogramVec
	sent     *prometheus.CounterVec
	failed   *prometheus.CounterVec
}

// NewNotificationMetrics registers the notification metrics on the provided registerer.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notification_duration_seconds",
		Help:    "Duration of notification deliveries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"channel"})
	sent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_sent_total",
		Help: "Delivered notifications.",
	}, []string{"channel"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_failed_total",
		Help: "Notifications that could not be delivered.",
	}, []string{"channel"})
	reg.MustRegister(duration, sent, failed)
	return &NotificationMetrics{
		duration: duration,
		sent:     sent,
		failed:   failed,
	}
}

// ObserveDuration records the delivery duration for the channel.
func (n *NotificationMetrics) ObserveDuration(channel string, duration time.Duration) {
	if n == nil || n.duration == nil {
		return
	}
	n.duration.WithLabelValues(normalizeLabel(channel)).Observe(duration.Seconds())
}

func (n *NotificationMetrics) IncSent(channel string) {
	if n == nil || n.sent == nil {
		return
	}
	n.sent.WithLabelValues(normalizeLabel(channel)).Inc()
}

func (n *NotificationMetrics) IncFailed(channel string) {
	if n == nil || n.failed == nil {
		return
	}
	n.failed.WithLabelValues(normalizeLabel(channel)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
