package model

// EmissionFactors maps generation sources of the day-ahead mix to gCO2eq/kWh.
// The table is immutable once constructed; components receive it by value.
type EmissionFactors struct {
	Solar float64 `json:"solar"`
	// Wind averages onshore and offshore turbines.
	Wind float64 `json:"wind"`
	// ThermalAndNuclear covers the inferred residual. The Belgian residual is a
	// mix of nuclear (~5 g/kWh) and gas (~490 g/kWh); a 60/40 weighting gives
	// the 199 g/kWh composite.
	ThermalAndNuclear float64 `json:"thermal_and_nuclear"`
}

// DefaultEmissionFactors returns the factor table for the Belgian grid.
func DefaultEmissionFactors() EmissionFactors {
	return EmissionFactors{
		Solar:             15,
		Wind:              11.5,
		ThermalAndNuclear: 5*0.6 + 490*0.4,
	}
}

// FuelFactors maps ENTSO-E production type names to gCO2eq/kWh for the richer
// real-time generation-by-fuel feed.
type FuelFactors map[string]float64

// DefaultFuelFactors returns per-fuel factors used for real-time snapshots.
func DefaultFuelFactors() FuelFactors {
	return FuelFactors{
		"Solar":                 15,
		"Wind Onshore":          11.5,
		"Wind Offshore":         11.5,
		"Nuclear":               5,
		"Fossil Gas":            490,
		"Fossil Hard coal":      820,
		"Hydro Water Reservoir": 24,
		"Hydro Run-of-river":    24,
		"Biomass":               230,
		"Waste":                 200,
		"Other":                 200,
	}
}

// Factor returns the factor for the given fuel, falling back to the "Other"
// value for fuels without an explicit entry.
func (f FuelFactors) Factor(fuel string) float64 {
	if v, ok := f[fuel]; ok {
		return v
	}
	return f["Other"]
}
