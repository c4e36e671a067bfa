package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	coreforecast "github.com/kilianp07/carbonsaver/core/forecast"
	"github.com/kilianp07/carbonsaver/core/model"
	"github.com/kilianp07/carbonsaver/infra/logger"
)

// Provider returns the forecast for the given date. A zero date requests the
// most recent available day.
type Provider interface {
	Forecast(ctx context.Context, date time.Time) (*coreforecast.Forecast, error)
}

type response struct {
	Success    bool                     `json:"success"`
	RequestID  string                   `json:"request_id"`
	Summary    coreforecast.Summary     `json:"summary"`
	HourlyData []model.HourlyGridRecord `json:"hourly_data"`
}

// NewHandler returns an HTTP handler exposing the carbon intensity forecast
// via GET /api/forecast.
func NewHandler(p Provider) http.Handler {
	log := logger.New("api-forecast")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var date time.Time
		if ds := r.URL.Query().Get("date"); ds != "" {
			var err error
			date, err = time.Parse("2006-01-02", ds)
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

		w.Header().Set("Content-Type", "application/json")
		resp := response{
			Success:    true,
			RequestID:  uuid.NewString(),
			Summary:    f.Summarize(),
			HourlyData: f.Hours,
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
