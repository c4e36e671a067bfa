package forecast

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Point is one upstream reading: a value in MW at a timestamp, optionally
// scoped to a reporting region. Pagination is handled by the data source;
// points arrive here already merged across pages.
type Point struct {
	Time   time.Time
	Region string
	MW     float64
}

// AggregateRegions sums same-timestamp readings into one national figure.
// Wind and solar are reported per region and must be summed, not averaged;
// single-region series pass through unchanged.
func AggregateRegions(points []Point) map[time.Time]float64 {
	agg := make(map[time.Time]float64, len(points))
	for _, p := range points {
		agg[p.Time.UTC()] += p.MW
	}
	return agg
}

// ResampleHourly downsamples sub-hourly readings of the given day to hourly
// means. MW is a rate, so the hourly figure is the mean of the samples within
// the hour, not their sum. Timestamps outside the day are ignored. The result
// maps hour-of-day to MW and contains only hours that had at least one sample.
func ResampleHourly(values map[time.Time]float64, day time.Time) map[int]float64 {
	day = day.UTC().Truncate(24 * time.Hour)
	next := day.AddDate(0, 0, 1)

	samples := make(map[int][]float64, 24)
	for ts, mw := range values {
		if ts.Before(day) || !ts.Before(next) {
			continue
		}
		h := ts.Hour()
		samples[h] = append(samples[h], mw)
	}

	hourly := make(map[int]float64, len(samples))
	for h, vals := range samples {
		hourly[h] = stat.Mean(vals, nil)
	}
	return hourly
}

// completeDay reports whether the resampled series covers every hour of a day.
func completeDay(hourly map[int]float64) bool {
	for h := 0; h < 24; h++ {
		if _, ok := hourly[h]; !ok {
			return false
		}
	}
	return true
}
