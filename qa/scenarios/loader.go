package scenarios

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/carbonsaver/core/model"
)

type ProfileDef struct {
	PowerKW       float64 `yaml:"power_kw"`
	DurationHours int     `yaml:"duration_hours"`
	StartHour     int     `yaml:"standard_start_hour"`
}

func (p ProfileDef) ToModel() model.LoadProfile {
	return model.LoadProfile{
		PowerKW:            p.PowerKW,
		DurationHours:      p.DurationHours,
		ReferenceStartHour: p.StartHour,
	}
}

type Expected struct {
	OptimalStartHour int     `yaml:"optimal_start_hour"`
	SavedKg          float64 `yaml:"saved_kg"`
	SavedPct         float64 `yaml:"saved_pct"`
	TimeShiftHours   int     `yaml:"time_shift_hours"`
	// Tolerance is the absolute tolerance for the float expectations.
	Tolerance float64 `yaml:"tolerance"`
}

type Scenario struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Date        string     `yaml:"date"`
	Intensities []float64  `yaml:"intensities"`
	Profile     ProfileDef `yaml:"profile"`
	Expected    Expected   `yaml:"expected"`
}

// Series expands the scenario intensities into an hourly record series.
func (s *Scenario) Series() ([]model.HourlyGridRecord, error) {
	day, err := time.Parse("2006-01-02", s.Date)
	if err != nil {
		return nil, err
	}
	records := make([]model.HourlyGridRecord, len(s.Intensities))
	for i, ci := range s.Intensities {
		records[i] = model.HourlyGridRecord{
			Hour:            day.Add(time.Duration(i) * time.Hour),
			CarbonIntensity: ci,
		}
	}
	return records, nil
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
