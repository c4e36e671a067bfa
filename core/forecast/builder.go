package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/carbonsaver/core/logger"
	"github.com/kilianp07/carbonsaver/core/metrics"
	"github.com/kilianp07/carbonsaver/core/model"
)

// GridSource provides the three day-ahead series for a given date. Each series
// may be reported at sub-hourly resolution and, for wind and solar, split
// across regions.
type GridSource interface {
	DayAheadLoad(ctx context.Context, day time.Time) ([]Point, error)
	DayAheadWind(ctx context.Context, day time.Time) ([]Point, error)
	DayAheadSolar(ctx context.Context, day time.Time) ([]Point, error)
}

// Forecast is the hourly carbon-intensity table for one day.
type Forecast struct {
	// Date is the day the data actually covers. It can differ from the
	// requested date when the backward search had to fall back.
	Date  time.Time
	Hours []model.HourlyGridRecord
}

// Config defines forecast builder parameters loaded from configuration.
type Config struct {
	// LookbackDays bounds the backward date search when the requested date has
	// incomplete coverage.
	LookbackDays int `json:"lookback_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.LookbackDays <= 0 {
		c.LookbackDays = 7
	}
}

// Builder turns upstream day-ahead series into an hourly carbon-intensity
// forecast. It is a pure function of the upstream provider's current state;
// the only side effects are outbound reads.
type Builder struct {
	src     GridSource
	factors model.EmissionFactors
	cfg     Config
	sink    metrics.Sink
	log     logger.Logger
}

// NewBuilder creates a Builder. A nil sink disables metrics.
func NewBuilder(src GridSource, factors model.EmissionFactors, cfg Config, sink metrics.Sink, log logger.Logger) *Builder {
	cfg.SetDefaults()
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Builder{src: src, factors: factors, cfg: cfg, sink: sink, log: log}
}

// Build returns the forecast for the target date, or for the nearest earlier
// date with complete 24-hour coverage of all three series. Days are
// all-or-nothing: a partial day is never returned. When the lookback window is
// exhausted, or the context deadline expires, Build fails with
// *DataUnavailableError carrying the last date attempted.
func (b *Builder) Build(ctx context.Context, target time.Time) (*Forecast, error) {
	day := target.UTC().Truncate(24 * time.Hour)
	last := day

	for offset := 0; offset <= b.cfg.LookbackDays; offset++ {
		d := day.AddDate(0, 0, -offset)
		last = d

		hours, err := b.buildDay(ctx, d)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, &DataUnavailableError{LastDate: d, Err: ctxErr}
			}
			b.log.Warnf("no complete data for %s: %v", d.Format("2006-01-02"), err)
			continue
		}

		if rerr := b.sink.RecordForecast(metrics.ForecastEvent{
			RequestedDate: day,
			UsedDate:      d,
			FallbackDays:  offset,
			Hours:         len(hours),
			Time:          time.Now(),
		}); rerr != nil {
			b.log.Errorf("record forecast metric: %v", rerr)
		}
		if offset > 0 {
			b.log.Infof("fell back %d day(s) from %s to %s", offset, day.Format("2006-01-02"), d.Format("2006-01-02"))
		}
		return &Forecast{Date: d, Hours: hours}, nil
	}

	return nil, &DataUnavailableError{LastDate: last}
}

// buildDay assembles the 24 hourly records for a single day. The wind series
// is probed first: it is the most restrictive upstream, so a missing wind day
// skips the other two fetches.
func (b *Builder) buildDay(ctx context.Context, day time.Time) ([]model.HourlyGridRecord, error) {
	wind, err := b.fetchHourly(ctx, day, "wind", b.src.DayAheadWind)
	if err != nil {
		return nil, err
	}
	load, err := b.fetchHourly(ctx, day, "load", b.src.DayAheadLoad)
	if err != nil {
		return nil, err
	}
	solar, err := b.fetchHourly(ctx, day, "solar", b.src.DayAheadSolar)
	if err != nil {
		return nil, err
	}

	records := make([]model.HourlyGridRecord, 24)
	for h := 0; h < 24; h++ {
		r := model.HourlyGridRecord{
			Hour:        day.Add(time.Duration(h) * time.Hour),
			TotalLoadMW: load[h],
			WindMW:      wind[h],
			SolarMW:     solar[h],
		}
		r.Derive(b.factors)
		records[h] = r
	}
	return records, nil
}

type seriesFetch func(ctx context.Context, day time.Time) ([]Point, error)

func (b *Builder) fetchHourly(ctx context.Context, day time.Time, name string, fetch seriesFetch) (map[int]float64, error) {
	points, err := fetch(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("fetch %s series: %w", name, err)
	}
	hourly := ResampleHourly(AggregateRegions(points), day)
	if !completeDay(hourly) {
		return nil, fmt.Errorf("%s series has %d/24 hours: %w", name, len(hourly), ErrIncompleteDay)
	}
	return hourly, nil
}

// Summary holds aggregate statistics over the forecast day.
type Summary struct {
	Date               string  `json:"date"`
	MinCarbonIntensity float64 `json:"min_carbon_intensity"`
	MaxCarbonIntensity float64 `json:"max_carbon_intensity"`
	AvgCarbonIntensity float64 `json:"avg_carbon_intensity"`
	TotalHours         int     `json:"total_hours"`
}

// Summarize computes min/max/avg intensity over the forecast hours.
func (f *Forecast) Summarize() Summary {
	s := Summary{Date: f.Date.Format("2006-01-02"), TotalHours: len(f.Hours)}
	if len(f.Hours) == 0 {
		return s
	}
	s.MinCarbonIntensity = f.Hours[0].CarbonIntensity
	var sum float64
	for _, h := range f.Hours {
		ci := h.CarbonIntensity
		if ci < s.MinCarbonIntensity {
			s.MinCarbonIntensity = ci
		}
		if ci > s.MaxCarbonIntensity {
			s.MaxCarbonIntensity = ci
		}
		sum += ci
	}
	s.AvgCarbonIntensity = sum / float64(len(f.Hours))
	return s
}
