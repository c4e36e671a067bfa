package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kilianp07/carbonsaver/app"
	"github.com/kilianp07/carbonsaver/config"
)

const day = "2025-06-10"

// newEliaServer serves one full quarter-hour day for the three day-ahead
// datasets, in a single page each.
func newEliaServer(t *testing.T) *httptest.Server {
	t.Helper()
	start, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatalf("parse day: %v", err)
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var results []map[string]any
		for q := 0; q < 96; q++ {
			ts := start.Add(time.Duration(q) * 15 * time.Minute).Format(time.RFC3339)
			switch {
			case strings.Contains(r.URL.Path, "ods001"):
				results = append(results, map[string]any{"datetime": ts, "dayaheadforecast": 9000.0})
			case strings.Contains(r.URL.Path, "ods032"):
				results = append(results, map[string]any{"datetime": ts, "region": "Federal", "dayaheadforecast": 2000.0})
			case strings.Contains(r.URL.Path, "ods087"):
				results = append(results, map[string]any{"datetime": ts, "region": "Belgium", "dayaheadforecast": 500.0})
			default:
				http.NotFound(w, r)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{"total_count": len(results), "results": results}); err != nil {
			t.Errorf("encode page: %v", err)
		}
	}))
}

const generationDocument = `<?xml version="1.0" encoding="UTF-8"?>
<GL_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-6:generationloaddocument:3:0">
  <TimeSeries>
    <MktPSRType><psrType>B14</psrType></MktPSRType>
    <Period>
      <timeInterval><start>2025-06-10T10:00Z</start><end>2025-06-10T12:00Z</end></timeInterval>
      <Point><position>1</position><quantity>4000</quantity></Point>
    </Period>
  </TimeSeries>
  <TimeSeries>
    <MktPSRType><psrType>B04</psrType></MktPSRType>
    <Period>
      <timeInterval><start>2025-06-10T10:00Z</start><end>2025-06-10T12:00Z</end></timeInterval>
      <Point><position>1</position><quantity>2000</quantity></Point>
    </Period>
  </TimeSeries>
</GL_MarketDocument>`

func newEntsoeServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("securityToken") == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if _, err := w.Write([]byte(generationDocument)); err != nil {
			t.Errorf("write document: %v", err)
		}
	}))
}

func startService(t *testing.T, eliaURL, entsoeURL string) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := fmt.Sprintf(`api:
  address: ":0"
elia:
  base_url: %q
  page_size: 100
entsoe:
  base_url: %q
  security_token: "e2e-token"
forecast:
  lookback_days: 2
`, eliaURL, entsoeURL)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Errorf("close service: %v", err)
		}
	})
	api := httptest.NewServer(svc.Handler())
	t.Cleanup(api.Close)
	return api
}

func TestEndToEnd(t *testing.T) {
	elia := newEliaServer(t)
	defer elia.Close()
	entsoe := newEntsoeServer(t)
	defer entsoe.Close()
	api := startService(t, elia.URL, entsoe.URL)

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(api.URL + "/api/health")
		if err != nil {
			t.Fatalf("get health: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
	})

	t.Run("forecast", func(t *testing.T) {
		resp, err := http.Get(api.URL + "/api/forecast?date=" + day)
		if err != nil {
			t.Fatalf("get forecast: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		var out struct {
			Success bool `json:"success"`
			Summary struct {
				Date       string `json:"date"`
				TotalHours int    `json:"total_hours"`
			} `json:"summary"`
			HourlyData []struct {
				TotalLoadMW     float64 `json:"total_load_mw"`
				CarbonIntensity float64 `json:"carbon_intensity"`
			} `json:"hourly_data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !out.Success || out.Summary.Date != day || out.Summary.TotalHours != 24 {
			t.Fatalf("unexpected summary %+v", out.Summary)
		}
		// load 9000, wind 2000, solar 500, residual 6500 at factors
		// 11.5/15/199 gives ~146.85 g/kWh for every hour.
		got := out.HourlyData[0].CarbonIntensity
		if got < 146 || got > 148 {
			t.Fatalf("unexpected intensity %g", got)
		}
	})

	t.Run("optimize", func(t *testing.T) {
		body := `{"power_kw":250,"duration_hours":4,"standard_start_hour":7,"date":"` + day + `"}`
		resp, err := http.Post(api.URL+"/api/optimize-forecast", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("post optimize: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		var out struct {
			Success bool   `json:"success"`
			Date    string `json:"date"`
			Optimal struct {
				StartHour int `json:"start_hour"`
			} `json:"optimal_profile"`
			Savings struct {
				EmissionsSavedKg float64 `json:"emissions_saved_kg"`
			} `json:"savings"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !out.Success || out.Date != day {
			t.Fatalf("unexpected envelope %+v", out)
		}
		// The fake upstream serves a flat day, so the earliest window wins
		// with zero savings.
		if out.Optimal.StartHour != 0 || out.Savings.EmissionsSavedKg != 0 {
			t.Fatalf("expected flat-day optimum at hour 0, got %+v", out)
		}
	})

	t.Run("realtime production", func(t *testing.T) {
		resp, err := http.Get(api.URL + "/api/realtime-production")
		if err != nil {
			t.Fatalf("get production: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		var out struct {
			Success    bool               `json:"success"`
			Source     string             `json:"source"`
			Production map[string]float64 `json:"production"`
			TotalMW    float64            `json:"total_mw"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !out.Success || out.Source != "entsoe" || out.TotalMW != 6000 {
			t.Fatalf("unexpected production %+v", out)
		}
		if out.Production["Nuclear"] != 4000 || out.Production["Fossil Gas"] != 2000 {
			t.Fatalf("unexpected mix %v", out.Production)
		}
	})
}
