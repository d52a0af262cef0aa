package metrics

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNotificationMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewNotificationMetrics(reg)
	metrics.ObserveDuration("sendgrid", 250*time.Millisecond)
	metrics.IncSent("sendgrid")
	metrics.IncFailed("sendgrid")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "notification_sent_total", "channel", "sendgrid"); err != nil {
		t.Fatalf("fetch sent: %v", err)
	} else if got != 1 {
		t.Fatalf("expected sent=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "notification_failed_total", "channel", "sendgrid"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failed=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "notification_duration_seconds", "channel", "sendgrid"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestCheckoutMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCheckoutMetrics(reg)
	metrics.IncAttempt(OutcomeSuccess)
	metrics.IncAttempt(OutcomeSuccess)
	metrics.IncResolutionFailure("postage")
	metrics.ObserveCacheLookup(true)
	metrics.ObserveAssembly(10 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, _ := fetchCounterValue(mfs, "checkout_attempts_total", "outcome", OutcomeSuccess); got != 2 {
		t.Fatalf("expected 2 successful attempts, got %f", got)
	}
	if got, _ := fetchCounterValue(mfs, "checkout_resolution_failures_total", "kind", "postage"); got != 1 {
		t.Fatalf("expected 1 postage failure, got %f", got)
	}
	if got, _ := fetchCounterValue(mfs, "checkout_variant_cache_lookups_total", "result", "hit"); got != 1 {
		t.Fatalf("expected 1 cache hit, got %f", got)
	}
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	metrics.Start()
	metrics.Observe(http.MethodGet, "/api/v1/basket", http.StatusOK, 5*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/v1/basket"); err != nil || got != 1 {
		t.Fatalf("expected one request, got %f (%v)", got, err)
	}
}

func TestBreakerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewBreakerMetrics(reg)
	metrics.SetState("storefront", 2)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	mf := findMetricFamily(mfs, "circuit_breaker_state")
	if mf == nil || mf.GetMetric()[0].GetGauge().GetValue() != 2 {
		t.Fatalf("expected open breaker gauge")
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewCheckoutMetrics(nil).IncAttempt(OutcomeError)
	NewHTTPMetrics(nil).Observe(http.MethodGet, "", http.StatusOK, time.Second)
	NewBreakerMetrics(nil).SetState("x", 1)
	var n *NotificationMetrics
	n.IncSent("x")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
