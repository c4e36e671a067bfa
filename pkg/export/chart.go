package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/carbonsaver/core/forecast"
)

// WriteChartHTML renders the hourly carbon intensity as a standalone HTML
// line chart.
func WriteChartHTML(w io.Writer, f *forecast.Forecast) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Carbon Intensity " + f.Date.Format("2006-01-02")}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Hour"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "gCO2eq/kWh"}),
	)

	var xAxis []string
	var intensity []opts.LineData
	for _, h := range f.Hours {
		xAxis = append(xAxis, h.Hour.Format("15:04"))
		intensity = append(intensity, opts.LineData{Value: h.CarbonIntensity})
	}
	line.SetXAxis(xAxis).AddSeries("Carbon intensity", intensity)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %v", err)
	}
	return nil
}
