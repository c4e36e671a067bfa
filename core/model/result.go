package model

// ScheduleWindow summarises emissions for a load running over a contiguous
// block of hours. Windows are recomputed per request and never persisted.
type ScheduleWindow struct {
	StartHour     int     `json:"start_hour"`
	EndHour       int     `json:"end_hour"`
	DurationHours int     `json:"duration_hours"`
	EnergyKWh     float64 `json:"energy_kwh"`
	// AvgCarbonIntensity is the equal-weight mean of the covered hourly
	// intensities, in gCO2eq/kWh.
	AvgCarbonIntensity float64 `json:"avg_carbon_intensity"`
	TotalEmissionsKg   float64 `json:"total_emissions_kg"`
}

// Savings compares the optimal window against the reference window.
type Savings struct {
	EmissionsSavedKg  float64 `json:"emissions_saved_kg"`
	EmissionsSavedPct float64 `json:"emissions_saved_pct"`
	// TimeShiftHours is signed: negative means starting earlier than usual.
	TimeShiftHours int `json:"time_shift_hours"`
	// KmEquivalent expresses the saving as distance driven by an average
	// passenger car emitting 120 gCO2/km.
	KmEquivalent float64 `json:"km_equivalent"`
}

// AnnotatedHour is an hourly record flagged for downstream visualisation. An
// hour may belong to both windows, one of them, or neither.
type AnnotatedHour struct {
	HourlyGridRecord
	IsStandardWindow bool `json:"is_standard_window"`
	IsOptimalWindow  bool `json:"is_optimal_window"`
}

// OptimizationResult is the full outcome of a window search over one day.
type OptimizationResult struct {
	Date     string          `json:"date"`
	Standard ScheduleWindow  `json:"standard_profile"`
	Optimal  ScheduleWindow  `json:"optimal_profile"`
	Savings  Savings         `json:"savings"`
	Hours    []AnnotatedHour `json:"hourly_data"`
}
