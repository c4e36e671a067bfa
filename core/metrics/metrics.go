package metrics

import "time"

// UpstreamFetchEvent records one call against an upstream data feed.
type UpstreamFetchEvent struct {
	Dataset  string
	Status   string
	Duration time.Duration
	Records  int
	Time     time.Time
}

// ForecastEvent records a completed forecast build.
type ForecastEvent struct {
	RequestedDate time.Time
	UsedDate      time.Time
	// FallbackDays is how many days the backward search walked before finding
	// complete coverage.
	FallbackDays int
	Hours        int
	Time         time.Time
}

// OptimizationEvent records one window optimization.
type OptimizationEvent struct {
	Date           time.Time
	PowerKW        float64
	DurationHours  int
	SavedKg        float64
	SavedPct       float64
	TimeShiftHours int
	Time           time.Time
}

// Sink records forecast and optimization events for observability purposes.
type Sink interface {
	RecordUpstreamFetch(ev UpstreamFetchEvent) error
	RecordForecast(ev ForecastEvent) error
	RecordOptimization(ev OptimizationEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordUpstreamFetch(UpstreamFetchEvent) error { return nil }
func (NopSink) RecordForecast(ForecastEvent) error           { return nil }
func (NopSink) RecordOptimization(OptimizationEvent) error   { return nil }
