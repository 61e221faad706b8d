package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAction(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveAction("create", "redirect", 10*time.Millisecond)
	m.ObserveAction("create", "redirect", 10*time.Millisecond)
	m.ObserveAction("delete", "failed", time.Millisecond)
	if got := testutil.ToFloat64(m.actions.WithLabelValues("create", "redirect")); got != 2 {
		t.Fatalf("expected 2 got %v", got)
	}
	if got := testutil.ToFloat64(m.actions.WithLabelValues("delete", "failed")); got != 1 {
		t.Fatalf("expected 1 got %v", got)
	}
}

func TestCacheLookupAndNilSafety(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)
	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")); got != 2 {
		t.Fatalf("expected 2 misses got %v", got)
	}
	var nilM *Metrics
	nilM.CacheLookup(true)
	nilM.ObserveAction("create", "redirect", time.Second)
}
