package optimizer

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/carbonsaver/core/model"
)

// kmPerKgCO2 converts saved kilograms of CO2 into kilometres driven by an
// average passenger car emitting 120 gCO2/km, i.e. 1000/120 ~= 8.33 km per kg.
const kmPerKgCO2 = 1000.0 / 120.0

// tiePrecision rounds emissions to 4 decimal places before comparison so that
// floating-point noise cannot break the earliest-start tie-break.
const tiePrecision = 1e4

// Optimize searches every feasible start hour for the window minimising total
// emissions and compares it against the reference window of the profile.
// Windows never wrap past the end of the series: scheduling across midnight
// into the next day is not supported.
func Optimize(series []model.HourlyGridRecord, profile model.LoadProfile) (*model.OptimizationResult, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	n := len(series)
	d := profile.DurationHours
	if d > n {
		return nil, &InsufficientDataError{SeriesHours: n, DurationHours: d}
	}
	if profile.ReferenceStartHour+d > n {
		return nil, &InsufficientDataError{SeriesHours: n, DurationHours: d, StartHour: profile.ReferenceStartHour, Reference: true}
	}

	standard := windowAt(series, profile, profile.ReferenceStartHour)

	optimal := windowAt(series, profile, 0)
	for s := 1; s+d <= n; s++ {
		w := windowAt(series, profile, s)
		// Strict comparison keeps the earliest start on exact ties.
		if roundTie(w.TotalEmissionsKg) < roundTie(optimal.TotalEmissionsKg) {
			optimal = w
		}
	}

	saved := standard.TotalEmissionsKg - optimal.TotalEmissionsKg
	if saved < 0 {
		// Tie-break rounding can leave the reference marginally below the
		// chosen optimum; report that as zero savings, never negative.
		saved = 0
	}
	pct := 0.0
	if standard.TotalEmissionsKg > 0 {
		pct = saved / standard.TotalEmissionsKg * 100
	}

	res := &model.OptimizationResult{
		Standard: standard,
		Optimal:  optimal,
		Savings: model.Savings{
			EmissionsSavedKg:  saved,
			EmissionsSavedPct: pct,
			TimeShiftHours:    optimal.StartHour - standard.StartHour,
			KmEquivalent:      saved * kmPerKgCO2,
		},
		Hours: annotate(series, standard, optimal),
	}
	if n > 0 {
		res.Date = series[0].Hour.Format("2006-01-02")
	}
	return res, nil
}

// windowAt computes the schedule window starting at index s. The duration is
// assumed to align to whole-hour boundaries; hours are weighted equally.
func windowAt(series []model.HourlyGridRecord, profile model.LoadProfile, s int) model.ScheduleWindow {
	d := profile.DurationHours
	intensities := make([]float64, d)
	for i := 0; i < d; i++ {
		intensities[i] = series[s+i].CarbonIntensity
	}
	avg := stat.Mean(intensities, nil)
	energy := profile.EnergyKWh()
	return model.ScheduleWindow{
		StartHour:          s,
		EndHour:            s + d,
		DurationHours:      d,
		EnergyKWh:          energy,
		AvgCarbonIntensity: avg,
		// g -> kg conversion.
		TotalEmissionsKg: energy * avg / 1000,
	}
}

func annotate(series []model.HourlyGridRecord, standard, optimal model.ScheduleWindow) []model.AnnotatedHour {
	hours := make([]model.AnnotatedHour, len(series))
	for i, rec := range series {
		hours[i] = model.AnnotatedHour{
			HourlyGridRecord: rec,
			IsStandardWindow: i >= standard.StartHour && i < standard.EndHour,
			IsOptimalWindow:  i >= optimal.StartHour && i < optimal.EndHour,
		}
	}
	return hours
}

func roundTie(v float64) float64 {
	return math.Round(v*tiePrecision) / tiePrecision
}
