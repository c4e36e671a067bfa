package forecast

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	coreforecast "github.com/kilianp07/carbonsaver/core/forecast"
	"github.com/kilianp07/carbonsaver/core/model"
)

type fakeProvider struct {
	forecast *coreforecast.Forecast
	err      error
	gotDate  time.Time
}

func (f *fakeProvider) Forecast(_ context.Context, date time.Time) (*coreforecast.Forecast, error) {
	f.gotDate = date
	return f.forecast, f.err
}

func testForecast() *coreforecast.Forecast {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	hours := make([]model.HourlyGridRecord, 24)
	for i := range hours {
		hours[i] = model.HourlyGridRecord{
			Hour:            day.Add(time.Duration(i) * time.Hour),
			TotalLoadMW:     9000,
			CarbonIntensity: 100 + float64(i),
		}
	}
	return &coreforecast.Forecast{Date: day, Hours: hours}
}

func TestHandler_Basic(t *testing.T) {
	p := &fakeProvider{forecast: testForecast()}
	h := NewHandler(p)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/forecast", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	if !p.gotDate.IsZero() {
		t.Fatalf("expected zero date without param, got %v", p.gotDate)
	}
	var out response
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success || out.RequestID == "" {
		t.Fatalf("unexpected envelope %#v", out)
	}
	if len(out.HourlyData) != 24 {
		t.Fatalf("expected 24 hours got %d", len(out.HourlyData))
	}
	if out.Summary.Date != "2025-06-10" || out.Summary.MinCarbonIntensity != 100 {
		t.Fatalf("unexpected summary %#v", out.Summary)
	}
}

func TestHandler_DateParam(t *testing.T) {
	p := &fakeProvider{forecast: testForecast()}
	h := NewHandler(p)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/forecast?date=2025-06-10", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	want := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	if !p.gotDate.Equal(want) {
		t.Fatalf("provider got %v want %v", p.gotDate, want)
	}
}

func TestHandler_BadDate(t *testing.T) {
	h := NewHandler(&fakeProvider{forecast: testForecast()})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/forecast?date=10-06-2025", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestHandler_DataUnavailable(t *testing.T) {
	p := &fakeProvider{err: &coreforecast.DataUnavailableError{LastDate: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)}}
	h := NewHandler(p)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/forecast", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rr.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := NewHandler(&fakeProvider{forecast: testForecast()})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/forecast", nil)
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
}
