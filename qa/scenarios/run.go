package scenarios

import (
	"math"
	"testing"

	"github.com/kilianp07/carbonsaver/core/optimizer"
)

// RunScenario executes the optimizer against the scenario and asserts the
// expected outcome.
func RunScenario(t *testing.T, sc *Scenario) {
	series, err := sc.Series()
	if err != nil {
		t.Fatalf("scenario %s: series: %v", sc.Name, err)
	}
	res, err := optimizer.Optimize(series, sc.Profile.ToModel())
	if err != nil {
		t.Fatalf("scenario %s: optimize: %v", sc.Name, err)
	}

	tol := sc.Expected.Tolerance
	if tol == 0 {
		tol = 0.01
	}
	if res.Optimal.StartHour != sc.Expected.OptimalStartHour {
		t.Errorf("scenario %s: optimal start %d want %d", sc.Name, res.Optimal.StartHour, sc.Expected.OptimalStartHour)
	}
	if math.Abs(res.Savings.EmissionsSavedKg-sc.Expected.SavedKg) > tol {
		t.Errorf("scenario %s: saved %g kg want %g", sc.Name, res.Savings.EmissionsSavedKg, sc.Expected.SavedKg)
	}
	if math.Abs(res.Savings.EmissionsSavedPct-sc.Expected.SavedPct) > tol {
		t.Errorf("scenario %s: saved %g%% want %g%%", sc.Name, res.Savings.EmissionsSavedPct, sc.Expected.SavedPct)
	}
	if res.Savings.TimeShiftHours != sc.Expected.TimeShiftHours {
		t.Errorf("scenario %s: time shift %d want %d", sc.Name, res.Savings.TimeShiftHours, sc.Expected.TimeShiftHours)
	}
}
