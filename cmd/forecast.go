package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/carbonsaver/config"
	coreforecast "github.com/kilianp07/carbonsaver/core/forecast"
	"github.com/kilianp07/carbonsaver/core/metrics"
	"github.com/kilianp07/carbonsaver/infra/elia"
	"github.com/kilianp07/carbonsaver/infra/logger"
	"github.com/kilianp07/carbonsaver/pkg/export"
)

var (
	forecastDate   string
	forecastFormat string
	forecastOut    string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Build and print the hourly carbon intensity forecast",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().StringVar(&forecastDate, "date", "", "forecast date (YYYY-MM-DD), defaults to tomorrow")
	forecastCmd.Flags().StringVar(&forecastFormat, "format", "table", "output format: table, json, csv or html")
	forecastCmd.Flags().StringVarP(&forecastOut, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := buildForecast(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if forecastOut != "" {
		file, err := os.Create(forecastOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil {
				logger.New("forecast-command").Errorf("close output file: %v", cerr)
			}
		}()
		out = file
	}

	switch forecastFormat {
	case "table":
		return printForecastTable(out, f)
	case "json":
		return export.WriteJSON(out, f)
	case "csv":
		return export.WriteCSV(out, f)
	case "html":
		return export.WriteChartHTML(out, f)
	default:
		return fmt.Errorf("unknown format %q", forecastFormat)
	}
}

func buildForecast(ctx context.Context) (*coreforecast.Forecast, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	target := time.Now().UTC().AddDate(0, 0, 1)
	if forecastDate != "" {
		target, err = time.Parse("2006-01-02", forecastDate)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD", forecastDate)
		}
	}

	// One-shot commands exit before a metrics endpoint could be scraped, so
	// the configured sinks are not wired here.
	source := elia.NewClient(cfg.Elia, metrics.NopSink{})
	builder := coreforecast.NewBuilder(source, cfg.Factors.EmissionFactors(), cfg.Forecast, metrics.NopSink{}, logger.New("forecast-command"))
	return builder.Build(ctx, target)
}

func printForecastTable(w io.Writer, f *coreforecast.Forecast) error {
	s := f.Summarize()
	fmt.Fprintf(w, "Carbon intensity forecast for %s\n", s.Date)
	fmt.Fprintf(w, "min %.1f / avg %.1f / max %.1f gCO2eq/kWh over %d hours\n\n", s.MinCarbonIntensity, s.AvgCarbonIntensity, s.MaxCarbonIntensity, s.TotalHours)
	fmt.Fprintf(w, "%-6s %10s %9s %9s %9s %11s\n", "hour", "load MW", "wind MW", "solar MW", "other MW", "gCO2eq/kWh")
	for _, h := range f.Hours {
		fmt.Fprintf(w, "%-6s %10.0f %9.0f %9.0f %9.0f %11.1f\n",
			h.Hour.Format("15:04"), h.TotalLoadMW, h.WindMW, h.SolarMW, h.ThermalAndNuclearMW, h.CarbonIntensity)
	}
	return nil
}
