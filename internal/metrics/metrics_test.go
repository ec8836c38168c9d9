package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountCommit(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CountCommit("sale", nil)
	m.CountCommit("sale", nil)
	m.CountCommit("sale", errors.New("boom"))

	if got := testutil.ToFloat64(m.commits.WithLabelValues("sale", OutcomeSuccess)); got != 2 {
		t.Fatalf("expected 2 successful commits, got %v", got)
	}
	if got := testutil.ToFloat64(m.commits.WithLabelValues("sale", OutcomeFailure)); got != 1 {
		t.Fatalf("expected 1 failed commit, got %v", got)
	}
}

func TestObserveStage(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveStage("extract", time.Now(), nil)

	if got := testutil.CollectAndCount(m.stageDuration); got != 1 {
		t.Fatalf("expected one histogram series, got %d", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveStage("extract", time.Now(), nil)
	m.CountCommit("sale", nil)
	m.CountHTTPRequest("GET", "/healthz", "200")
}
