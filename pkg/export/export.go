package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/carbonsaver/core/forecast"
)

// WriteJSON writes the forecast to w in JSON format.
func WriteJSON(w io.Writer, f *forecast.Forecast) error {
	enc := json.NewEncoder(w)
	return enc.Encode(f.Hours)
}

// WriteCSV writes the hourly records to w in CSV format.
func WriteCSV(w io.Writer, f *forecast.Forecast) error {
	cw := csv.NewWriter(w)
	header := []string{"datetime", "total_load_mw", "wind_mw", "solar_mw", "thermal_and_nuclear_mw", "carbon_intensity"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, h := range f.Hours {
		rec := []string{
			h.Hour.Format(time.RFC3339),
			strconv.FormatFloat(h.TotalLoadMW, 'f', -1, 64),
			strconv.FormatFloat(h.WindMW, 'f', -1, 64),
			strconv.FormatFloat(h.SolarMW, 'f', -1, 64),
			strconv.FormatFloat(h.ThermalAndNuclearMW, 'f', -1, 64),
			strconv.FormatFloat(h.CarbonIntensity, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
