package optimize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	coreforecast "github.com/kilianp07/carbonsaver/core/forecast"
	"github.com/kilianp07/carbonsaver/core/metrics"
	"github.com/kilianp07/carbonsaver/core/model"
	"github.com/kilianp07/carbonsaver/core/optimizer"
	"github.com/kilianp07/carbonsaver/infra/logger"
)

// Provider returns the forecast for the given date. A zero date requests the
// most recent available day.
type Provider interface {
	Forecast(ctx context.Context, date time.Time) (*coreforecast.Forecast, error)
}

// defaultStartHour is assumed when the caller omits the usual schedule.
const defaultStartHour = 6

type request struct {
	PowerKW           float64 `json:"power_kw"`
	DurationHours     int     `json:"duration_hours"`
	StandardStartHour *int    `json:"standard_start_hour"`
	Date              string  `json:"date"`
}

type response struct {
	Success   bool                  `json:"success"`
	RequestID string                `json:"request_id"`
	Date      string                `json:"date"`
	Standard  model.ScheduleWindow  `json:"standard_profile"`
	Optimal   model.ScheduleWindow  `json:"optimal_profile"`
	Savings   model.Savings         `json:"savings"`
	Hours     []model.AnnotatedHour `json:"hourly_data"`
}

// NewHandler returns an HTTP handler running the window optimizer via
// POST /api/optimize-forecast. A nil sink disables metrics.
func NewHandler(p Provider, sink metrics.Sink) http.Handler {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	log := logger.New("api-optimize")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		startHour := defaultStartHour
		if req.StandardStartHour != nil {
			startHour = *req.StandardStartHour
		}
		profile := model.LoadProfile{
			PowerKW:            req.PowerKW,
			DurationHours:      req.DurationHours,
			ReferenceStartHour: startHour,
		}
		if err := profile.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var date time.Time
		if req.Date != "" {
			var err error
			date, err = time.Parse("2006-01-02", req.Date)
			if err != nil {
				http.Error(w, "invalid date format, use YYYY-MM-DD", http.StatusBadRequest)
				return
			}
		}

		f, err := p.Forecast(r.Context(), date)
		if err != nil {
			var derr *coreforecast.DataUnavailableError
			if errors.As(err, &derr) {
				http.Error(w, derr.Error(), http.StatusServiceUnavailable)
				return
			}
			log.Errorf("forecast: %v", err)
			http.Error(w, "could not fetch forecast data", http.StatusInternalServerError)
			return
		}

		res, err := optimizer.Optimize(f.Hours, profile)
		if err != nil {
			var ierr *optimizer.InsufficientDataError
			if errors.As(err, &ierr) {
				http.Error(w, ierr.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if rerr := sink.RecordOptimization(metrics.OptimizationEvent{
			Date:           f.Date,
			PowerKW:        profile.PowerKW,
			DurationHours:  profile.DurationHours,
			SavedKg:        res.Savings.EmissionsSavedKg,
			SavedPct:       res.Savings.EmissionsSavedPct,
			TimeShiftHours: res.Savings.TimeShiftHours,
			Time:           time.Now(),
		}); rerr != nil {
			log.Errorf("record optimization metric: %v", rerr)
		}

		w.Header().Set("Content-Type", "application/json")
		resp := response{
			Success:   true,
			RequestID: uuid.NewString(),
			Date:      res.Date,
			Standard:  res.Standard,
			Optimal:   res.Optimal,
			Savings:   res.Savings,
			Hours:     res.Hours,
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
