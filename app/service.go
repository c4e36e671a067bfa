package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apiforecast "github.com/kilianp07/carbonsaver/api/forecast"
	apioptimize "github.com/kilianp07/carbonsaver/api/optimize"
	apiproduction "github.com/kilianp07/carbonsaver/api/production"
	"github.com/kilianp07/carbonsaver/config"
	coreforecast "github.com/kilianp07/carbonsaver/core/forecast"
	coremetrics "github.com/kilianp07/carbonsaver/core/metrics"
	"github.com/kilianp07/carbonsaver/infra/elia"
	"github.com/kilianp07/carbonsaver/infra/entsoe"
	"github.com/kilianp07/carbonsaver/infra/logger"
	"github.com/kilianp07/carbonsaver/infra/metrics"
	"github.com/kilianp07/carbonsaver/infra/mqtt"
	"github.com/kilianp07/carbonsaver/internal/eventbus"
)

// Service wires the forecast builder, upstream clients and the HTTP API.
type Service struct {
	cfg       *config.Config
	builder   *coreforecast.Builder
	cache     *coreforecast.Cache
	bus       *eventbus.Bus[*coreforecast.Forecast]
	publisher *mqtt.ForecastPublisher
	sink      coremetrics.Sink
	server    *http.Server
	log       logger.Logger
	now       func() time.Time
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.Sink
	switch len(sinks) {
	case 0:
		sink = coremetrics.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	source := elia.NewClient(cfg.Elia, sink)
	builder := coreforecast.NewBuilder(source, cfg.Factors.EmissionFactors(), cfg.Forecast, sink, logger.New("forecast-builder"))

	svc := &Service{
		cfg:     cfg,
		builder: builder,
		cache:   coreforecast.NewCache(),
		bus:     eventbus.New[*coreforecast.Forecast](),
		sink:    sink,
		log:     logg,
		now:     time.Now,
	}

	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewForecastPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = pub
	}

	production := entsoe.NewClient(cfg.Entsoe, cfg.Factors.FuelFactors(), sink)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	})
	mux.Handle("/api/forecast", apiforecast.NewHandler(svc))
	mux.Handle("/api/optimize-forecast", apioptimize.NewHandler(svc, sink))
	mux.Handle("/api/realtime-production", apiproduction.NewHandler(production))
	svc.server = &http.Server{Addr: cfg.API.Address, Handler: mux}

	return svc, nil
}

// Handler exposes the HTTP API without the listener, mainly for tests.
func (s *Service) Handler() http.Handler { return s.server.Handler }

// Forecast returns the forecast for the given date, serving from the cache
// when possible. A zero date requests the most recent available day, building
// tomorrow's forecast on a cold cache.
func (s *Service) Forecast(ctx context.Context, date time.Time) (*coreforecast.Forecast, error) {
	if date.IsZero() {
		if f, ok := s.cache.Latest(); ok {
			return f, nil
		}
		date = s.now().UTC().AddDate(0, 0, 1)
	}
	if f, ok := s.cache.Get(date); ok {
		return f, nil
	}
	f, err := s.builder.Build(ctx, date)
	if err != nil {
		return nil, err
	}
	s.cache.Put(date, f)
	s.bus.Publish(f)
	return f, nil
}

// Run starts the HTTP server and background workers, blocking until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.publisher != nil {
		sub := s.bus.Subscribe()
		go func() {
			for f := range sub {
				if err := s.publisher.Publish(f); err != nil {
					s.log.Errorf("publish forecast: %v", err)
				}
			}
		}()
	}
	if s.cfg.API.PrefetchEnabled {
		go s.prefetch(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("api listening on %s", s.cfg.API.Address)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// prefetch keeps tomorrow's forecast warm so API reads stay cache hits.
func (s *Service) prefetch(ctx context.Context) {
	interval := time.Duration(s.cfg.API.PrefetchIntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.Forecast(ctx, s.now().UTC().AddDate(0, 0, 1)); err != nil {
			s.log.Warnf("prefetch: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Close()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}
