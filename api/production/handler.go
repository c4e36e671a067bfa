package production

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/kilianp07/carbonsaver/infra/entsoe"
	"github.com/kilianp07/carbonsaver/infra/logger"
)

// Source returns the latest realised generation mix.
type Source interface {
	CurrentProduction(ctx context.Context) (*entsoe.ProductionSnapshot, error)
}

type response struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id"`
	// Source identifies the upstream that produced the snapshot.
	Source string `json:"source"`
	*entsoe.ProductionSnapshot
}

// NewHandler returns an HTTP handler exposing the realtime generation mix via
// GET /api/realtime-production.
func NewHandler(src Source) http.Handler {
	log := logger.New("api-production")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		snap, err := src.CurrentProduction(r.Context())
		if err != nil {
			if errors.Is(err, entsoe.ErrNoToken) {
				http.Error(w, "realtime production requires an ENTSO-E security token, set entsoe.security_token or CS_ENTSOE__SECURITY_TOKEN", http.StatusInternalServerError)
				return
			}
			log.Errorf("current production: %v", err)
			http.Error(w, "could not fetch production data", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		resp := response{
			Success:            true,
			RequestID:          uuid.NewString(),
			Source:             "entsoe",
			ProductionSnapshot: snap,
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
