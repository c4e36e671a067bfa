package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/carbonsaver/core/metrics"
)

// PromSink records forecast and optimization events in Prometheus metrics.
type PromSink struct {
	fetches   *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	forecasts prometheus.Counter
	fallback  prometheus.Gauge
	optimizes prometheus.Counter
	savedKg   prometheus.Histogram
}

// NewPromSink registers metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_fetch_total",
		Help: "Total number of upstream dataset fetches",
	}, []string{"dataset", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_fetch_duration_seconds",
		Help:    "Duration of upstream dataset fetches",
		Buckets: prometheus.DefBuckets,
	}, []string{"dataset"})
	forecasts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "forecast_builds_total",
		Help: "Total number of carbon-intensity forecasts built",
	})
	fallback := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "forecast_fallback_days",
		Help: "Days the last forecast build walked backward for complete data",
	})
	optimizes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optimize_requests_total",
		Help: "Total number of window optimizations",
	})
	savedKg := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimize_saved_kg",
		Help:    "Emissions saved per optimization in kg CO2eq",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
	})

	if err := reg.Register(fetches); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fetches = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(forecasts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			forecasts = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fallback); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fallback = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(optimizes); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			optimizes = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(savedKg); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			savedKg = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		fetches:   fetches,
		latency:   latency,
		forecasts: forecasts,
		fallback:  fallback,
		optimizes: optimizes,
		savedKg:   savedKg,
	}, nil
}

// RecordUpstreamFetch increments the fetch counter and observes the latency.
func (s *PromSink) RecordUpstreamFetch(ev coremetrics.UpstreamFetchEvent) error {
	s.fetches.WithLabelValues(ev.Dataset, ev.Status).Inc()
	s.latency.WithLabelValues(ev.Dataset).Observe(ev.Duration.Seconds())
	return nil
}

// RecordForecast counts the build and sets the fallback gauge.
func (s *PromSink) RecordForecast(ev coremetrics.ForecastEvent) error {
	s.forecasts.Inc()
	s.fallback.Set(float64(ev.FallbackDays))
	return nil
}

// RecordOptimization counts the request and observes the savings.
func (s *PromSink) RecordOptimization(ev coremetrics.OptimizationEvent) error {
	s.optimizes.Inc()
	s.savedKg.Observe(ev.SavedKg)
	return nil
}
