package config

import (
	"fmt"

	"github.com/kilianp07/carbonsaver/core/model"
)

// FactorsConfig overrides the built-in emission factor tables. Nil fields keep
// the defaults; fuel entries merge over the default fuel table.
type FactorsConfig struct {
	Solar             *float64 `json:"solar"`
	Wind              *float64 `json:"wind"`
	ThermalAndNuclear *float64 `json:"thermal_and_nuclear"`
	// Fuels maps ENTSO-E fuel names to gCO2eq/kWh overrides.
	Fuels map[string]float64 `json:"fuels"`
}

// EmissionFactors returns the day-ahead factor table with overrides applied.
func (c FactorsConfig) EmissionFactors() model.EmissionFactors {
	f := model.DefaultEmissionFactors()
	if c.Solar != nil {
		f.Solar = *c.Solar
	}
	if c.Wind != nil {
		f.Wind = *c.Wind
	}
	if c.ThermalAndNuclear != nil {
		f.ThermalAndNuclear = *c.ThermalAndNuclear
	}
	return f
}

// FuelFactors returns the per-fuel table with overrides merged in.
func (c FactorsConfig) FuelFactors() model.FuelFactors {
	f := model.DefaultFuelFactors()
	for fuel, v := range c.Fuels {
		f[fuel] = v
	}
	return f
}

// Validate rejects negative factors.
func (c FactorsConfig) Validate() error {
	for name, v := range map[string]*float64{
		"solar":               c.Solar,
		"wind":                c.Wind,
		"thermal_and_nuclear": c.ThermalAndNuclear,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("factor %s must not be negative, got %g", name, *v)
		}
	}
	for fuel, v := range c.Fuels {
		if v < 0 {
			return fmt.Errorf("fuel factor %s must not be negative, got %g", fuel, v)
		}
	}
	return nil
}
