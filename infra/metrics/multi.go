package metrics

import (
	"errors"

	coremetrics "github.com/kilianp07/carbonsaver/core/metrics"
)

// MultiSink fans events out to several sinks, joining their errors.
type MultiSink struct {
	sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink from the given sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordUpstreamFetch(ev coremetrics.UpstreamFetchEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordUpstreamFetch(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordForecast(ev coremetrics.ForecastEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordForecast(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordOptimization(ev coremetrics.OptimizationEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordOptimization(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
