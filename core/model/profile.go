package model

import "fmt"

// LoadProfile describes the flexible load to be scheduled.
type LoadProfile struct {
	PowerKW       float64 `json:"power_kw"`
	DurationHours int     `json:"duration_hours"`
	// ReferenceStartHour is the hour the load would normally start (0-23).
	ReferenceStartHour int `json:"standard_start_hour"`
}

// EnergyKWh returns the total energy consumed over the full duration.
func (p LoadProfile) EnergyKWh() float64 {
	return p.PowerKW * float64(p.DurationHours)
}

// Validate checks the profile parameters.
func (p LoadProfile) Validate() error {
	if p.PowerKW <= 0 {
		return fmt.Errorf("power_kw must be positive, got %g", p.PowerKW)
	}
	if p.DurationHours <= 0 {
		return fmt.Errorf("duration_hours must be positive, got %d", p.DurationHours)
	}
	if p.ReferenceStartHour < 0 || p.ReferenceStartHour > 23 {
		return fmt.Errorf("standard_start_hour must be between 0 and 23, got %d", p.ReferenceStartHour)
	}
	return nil
}
