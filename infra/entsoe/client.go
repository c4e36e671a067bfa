package entsoe

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kilianp07/carbonsaver/core/metrics"
	"github.com/kilianp07/carbonsaver/core/model"
	"github.com/kilianp07/carbonsaver/infra/logger"
)

// ErrNoToken is returned when no ENTSO-E security token is configured. The
// caller should fall back to the day-ahead pipeline.
var ErrNoToken = errors.New("entsoe security token not configured")

// Config defines the ENTSO-E transparency platform client settings.
type Config struct {
	BaseURL string `json:"base_url"`
	// SecurityToken is the API credential issued by the transparency platform.
	SecurityToken string `json:"security_token"`
	// Domain is the EIC area code; defaults to Belgium.
	Domain         string `json:"domain"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://web-api.tp.entsoe.eu/api"
	}
	if c.Domain == "" {
		c.Domain = "10YBE----------2"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
}

// ProductionSnapshot is the latest generation mix broken down by fuel type.
type ProductionSnapshot struct {
	Timestamp string `json:"timestamp"`
	// Production maps fuel-type names to MW.
	Production map[string]float64 `json:"production"`
	TotalMW    float64            `json:"total_mw"`
	// CarbonIntensity is derived from the per-fuel factor table, in g/kWh.
	CarbonIntensity float64 `json:"carbon_intensity_g_per_kwh"`
}

// Client fetches actual generation per production type (document A75) from
// the ENTSO-E transparency platform.
type Client struct {
	cfg     Config
	factors model.FuelFactors
	client  *http.Client
	sink    metrics.Sink
	log     logger.Logger
	now     func() time.Time
}

// NewClient creates a new ENTSO-E client. A nil sink disables metrics.
func NewClient(cfg Config, factors model.FuelFactors, sink metrics.Sink) *Client {
	cfg.SetDefaults()
	if factors == nil {
		factors = model.DefaultFuelFactors()
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Client{
		cfg:     cfg,
		factors: factors,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		sink:    sink,
		log:     logger.New("entsoe-client"),
		now:     time.Now,
	}
}

// CurrentProduction returns the most recent generation mix of the last 24
// hours together with its derived carbon intensity.
func (c *Client) CurrentProduction(ctx context.Context) (*ProductionSnapshot, error) {
	if c.cfg.SecurityToken == "" {
		return nil, ErrNoToken
	}

	end := c.now().UTC().Truncate(time.Hour)
	start := end.Add(-24 * time.Hour)

	q := url.Values{}
	q.Set("securityToken", c.cfg.SecurityToken)
	q.Set("documentType", "A75") // actual generation per type
	q.Set("processType", "A16")  // realised
	q.Set("in_Domain", c.cfg.Domain)
	q.Set("periodStart", start.Format("200601021504"))
	q.Set("periodEnd", end.Format("200601021504"))

	fetchStart := time.Now()
	doc, err := c.fetch(ctx, q)
	if err != nil {
		c.record("error", fetchStart)
		return nil, err
	}
	c.record("ok", fetchStart)

	snap := &ProductionSnapshot{Production: map[string]float64{}}
	for _, ts := range doc.TimeSeries {
		if len(ts.Periods) == 0 {
			continue
		}
		last := ts.Periods[len(ts.Periods)-1]
		if len(last.Points) == 0 {
			continue
		}
		// The last point of the last period is the most recent reading.
		mw := last.Points[len(last.Points)-1].Quantity
		snap.Production[fuelName(ts.MktPSRType.PsrType)] += mw
		if last.TimeInterval.End > snap.Timestamp {
			snap.Timestamp = last.TimeInterval.End
		}
	}
	if snap.Timestamp == "" {
		snap.Timestamp = end.Format(time.RFC3339)
	}

	var emissions float64
	for fuel, mw := range snap.Production {
		snap.TotalMW += mw
		emissions += mw * c.factors.Factor(fuel) * 1000
	}
	if snap.TotalMW > 0 {
		snap.CarbonIntensity = emissions / (snap.TotalMW * 1000)
	}
	return snap, nil
}

func (c *Client) fetch(ctx context.Context, q url.Values) (*generationDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Errorf("close response body: %v", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}

	var doc generationDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &doc, nil
}

func (c *Client) record(status string, start time.Time) {
	ev := metrics.UpstreamFetchEvent{
		Dataset:  "entsoe_a75",
		Status:   status,
		Duration: time.Since(start),
		Time:     time.Now(),
	}
	if err := c.sink.RecordUpstreamFetch(ev); err != nil {
		c.log.Errorf("record upstream fetch metric: %v", err)
	}
}
