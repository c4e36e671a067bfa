package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/carbonsaver/core/model"
	"github.com/kilianp07/carbonsaver/core/optimizer"
)

var (
	optimizePowerKW  float64
	optimizeDuration int
	optimizeStart    int
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Find the lowest-emissions window for a load",
	RunE:  runOptimize,
}

func init() {
	optimizeCmd.Flags().Float64Var(&optimizePowerKW, "power-kw", 0, "load power in kW")
	optimizeCmd.Flags().IntVar(&optimizeDuration, "duration", 0, "load duration in hours")
	optimizeCmd.Flags().IntVar(&optimizeStart, "start-hour", 6, "usual start hour (0-23)")
	optimizeCmd.Flags().StringVar(&forecastDate, "date", "", "forecast date (YYYY-MM-DD), defaults to tomorrow")
	_ = optimizeCmd.MarkFlagRequired("power-kw")
	_ = optimizeCmd.MarkFlagRequired("duration")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profile := model.LoadProfile{
		PowerKW:            optimizePowerKW,
		DurationHours:      optimizeDuration,
		ReferenceStartHour: optimizeStart,
	}
	if err := profile.Validate(); err != nil {
		return err
	}

	f, err := buildForecast(ctx)
	if err != nil {
		return err
	}
	res, err := optimizer.Optimize(f.Hours, profile)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Schedule comparison for %s (%.0f kW during %dh)\n\n", res.Date, profile.PowerKW, profile.DurationHours)
	printWindow(w, "usual", res.Standard)
	printWindow(w, "optimal", res.Optimal)
	fmt.Fprintf(w, "\nSavings: %.2f kg CO2eq (%.1f%%), shift %+dh\n", res.Savings.EmissionsSavedKg, res.Savings.EmissionsSavedPct, res.Savings.TimeShiftHours)
	fmt.Fprintf(w, "Equivalent to %.1f km driven by an average car\n", res.Savings.KmEquivalent)
	if res.Savings.TimeShiftHours == 0 {
		fmt.Fprintln(w, "Your usual schedule is already the cleanest window.")
	} else {
		fmt.Fprintf(w, "Recommendation: start at %02d:00 instead of %02d:00.\n", res.Optimal.StartHour, res.Standard.StartHour)
	}
	return nil
}

func printWindow(w io.Writer, label string, win model.ScheduleWindow) {
	fmt.Fprintf(w, "%-8s %02d:00-%02d:00  avg %7.2f gCO2eq/kWh  total %7.2f kg\n",
		label, win.StartHour, win.EndHour, win.AvgCarbonIntensity, win.TotalEmissionsKg)
}
