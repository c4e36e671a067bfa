package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/carbonsaver/core/metrics"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}

	if err := sink.RecordUpstreamFetch(coremetrics.UpstreamFetchEvent{
		Dataset: "ods032", Status: "ok", Duration: 120 * time.Millisecond,
	}); err != nil {
		t.Fatalf("record fetch: %v", err)
	}
	if err := sink.RecordForecast(coremetrics.ForecastEvent{FallbackDays: 2, Hours: 24}); err != nil {
		t.Fatalf("record forecast: %v", err)
	}
	if err := sink.RecordOptimization(coremetrics.OptimizationEvent{SavedKg: 38.4}); err != nil {
		t.Fatalf("record optimization: %v", err)
	}

	ps := sink.(*PromSink)
	if got := testutil.ToFloat64(ps.fetches.WithLabelValues("ods032", "ok")); got != 1 {
		t.Fatalf("fetch counter %g", got)
	}
	if got := testutil.ToFloat64(ps.forecasts); got != 1 {
		t.Fatalf("forecast counter %g", got)
	}
	if got := testutil.ToFloat64(ps.fallback); got != 2 {
		t.Fatalf("fallback gauge %g", got)
	}
	if got := testutil.ToFloat64(ps.optimizes); got != 1 {
		t.Fatalf("optimize counter %g", got)
	}
}

func TestPromSinkDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("second registration must reuse collectors: %v", err)
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	multi := NewMultiSink(prom, coremetrics.NopSink{})
	if err := multi.RecordOptimization(coremetrics.OptimizationEvent{SavedKg: 1}); err != nil {
		t.Fatalf("multi record: %v", err)
	}
	if got := testutil.ToFloat64(prom.(*PromSink).optimizes); got != 1 {
		t.Fatalf("optimize counter %g", got)
	}
}
