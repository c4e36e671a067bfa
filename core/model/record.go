package model

import "time"

// HourlyGridRecord is one hour of the national generation mix with its derived
// carbon intensity. Records form an ordered series covering a single day.
type HourlyGridRecord struct {
	Hour time.Time `json:"datetime"`
	// TotalLoadMW is the forecasted national load for the hour.
	TotalLoadMW float64 `json:"total_load_mw"`
	// WindMW and SolarMW are national totals summed over all reporting regions.
	WindMW  float64 `json:"wind_mw"`
	SolarMW float64 `json:"solar_mw"`
	// ThermalAndNuclearMW is the residual generation not explained by wind and
	// solar, floored at zero. Forecast inaccuracies can otherwise push it negative.
	ThermalAndNuclearMW float64 `json:"thermal_and_nuclear_mw"`
	// CarbonIntensity is expressed in gCO2eq per kWh consumed during the hour.
	CarbonIntensity float64 `json:"carbon_intensity"`
	// TotalEmissions is expressed in gCO2eq emitted per hour.
	TotalEmissions float64 `json:"total_emissions_gco2eq_per_h"`
}

// Derive fills the residual, total emissions and carbon intensity fields from
// the load, wind and solar values using the given factor table. An hour with
// zero forecasted load gets a zero intensity rather than a division by zero.
func (r *HourlyGridRecord) Derive(f EmissionFactors) {
	residual := r.TotalLoadMW - r.WindMW - r.SolarMW
	if residual < 0 {
		residual = 0
	}
	r.ThermalAndNuclearMW = residual

	// MW -> kW conversion keeps factors in g/kWh.
	r.TotalEmissions = (r.SolarMW*f.Solar + r.WindMW*f.Wind + residual*f.ThermalAndNuclear) * 1000
	if r.TotalLoadMW > 0 {
		r.CarbonIntensity = r.TotalEmissions / (r.TotalLoadMW * 1000)
	} else {
		r.CarbonIntensity = 0
	}
}
