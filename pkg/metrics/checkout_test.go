package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCheckoutMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.IncPlaced("stripe")
	m.IncPlaced("stripe")
	m.IncRejected("insufficient_stock")
	m.ObserveDuration("success", 120*time.Millisecond)

	if got := testutil.ToFloat64(m.placed.WithLabelValues("stripe")); got != 2 {
		t.Fatalf("expected 2 placed, got %v", got)
	}
	if got := testutil.ToFloat64(m.rejected.WithLabelValues("insufficient_stock")); got != 1 {
		t.Fatalf("expected 1 rejection, got %v", got)
	}
}

func TestCheckoutMetricsNilRegisterer(t *testing.T) {
	m := NewCheckoutMetrics(nil)
	m.IncPlaced("stripe")
	m.IncRejected("")
	m.ObserveDuration("", time.Second)

	var zero *CheckoutMetrics
	zero.IncPlaced("stripe")
}
