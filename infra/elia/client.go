package elia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kilianp07/carbonsaver/core/forecast"
	"github.com/kilianp07/carbonsaver/core/metrics"
	"github.com/kilianp07/carbonsaver/infra/logger"
)

// Elia Open Data dataset identifiers for the day-ahead feeds.
const (
	datasetLoad  = "ods001"
	datasetWind  = "ods032"
	datasetSolar = "ods087"
)

// Config defines the Elia Open Data API client settings.
type Config struct {
	BaseURL string `json:"base_url"`
	// PageSize is the records-per-page limit for the paginated explore API.
	PageSize       int `json:"page_size"`
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://opendata.elia.be/api/explore/v2.1/catalog/datasets"
	}
	if c.PageSize <= 0 {
		c.PageSize = 100
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Client fetches day-ahead load, wind and solar series from the Elia Open
// Data platform. It implements forecast.GridSource.
type Client struct {
	cfg    Config
	client *http.Client
	sink   metrics.Sink
	log    logger.Logger
}

// NewClient creates a new Elia API client. A nil sink disables metrics.
func NewClient(cfg Config, sink metrics.Sink) *Client {
	cfg.SetDefaults()
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		sink:   sink,
		log:    logger.New("elia-client"),
	}
}

// DayAheadLoad returns the national total load forecast for the given day.
func (c *Client) DayAheadLoad(ctx context.Context, day time.Time) ([]forecast.Point, error) {
	return c.fetchDataset(ctx, datasetLoad, day)
}

// DayAheadWind returns the per-region wind generation forecast for the given day.
func (c *Client) DayAheadWind(ctx context.Context, day time.Time) ([]forecast.Point, error) {
	return c.fetchDataset(ctx, datasetWind, day)
}

// DayAheadSolar returns the per-region solar generation forecast for the given day.
func (c *Client) DayAheadSolar(ctx context.Context, day time.Time) ([]forecast.Point, error) {
	return c.fetchDataset(ctx, datasetSolar, day)
}

// fetchDataset walks the offset/limit pagination of the explore API until all
// records of the day are merged into one slice.
func (c *Client) fetchDataset(ctx context.Context, dataset string, day time.Time) ([]forecast.Point, error) {
	day = day.UTC().Truncate(24 * time.Hour)
	next := day.AddDate(0, 0, 1)
	where := fmt.Sprintf("datetime>='%s' and datetime<'%s'", day.Format(time.RFC3339), next.Format(time.RFC3339))

	start := time.Now()
	var records []record
	offset := 0
	for {
		page, total, err := c.fetchPage(ctx, dataset, where, offset)
		if err != nil {
			c.record(dataset, "error", start, len(records))
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		records = append(records, page...)
		if len(records) >= total {
			break
		}
		offset += c.cfg.PageSize
	}
	c.record(dataset, "ok", start, len(records))

	points := make([]forecast.Point, 0, len(records))
	for _, r := range records {
		ts, err := r.timestamp()
		if err != nil {
			c.log.Warnf("dataset %s: skipping record with bad datetime %q: %v", dataset, r.Datetime, err)
			continue
		}
		points = append(points, forecast.Point{Time: ts, Region: r.Region, MW: r.DayAheadForecast})
	}
	return points, nil
}

func (c *Client) fetchPage(ctx context.Context, dataset, where string, offset int) ([]record, int, error) {
	q := url.Values{}
	q.Set("where", where)
	q.Set("limit", fmt.Sprint(c.cfg.PageSize))
	q.Set("offset", fmt.Sprint(offset))
	reqURL := fmt.Sprintf("%s/%s/records?%s", c.cfg.BaseURL, dataset, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Errorf("close response body: %v", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, 0, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}

	var page pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return page.Results, page.TotalCount, nil
}

func (c *Client) record(dataset, status string, start time.Time, records int) {
	ev := metrics.UpstreamFetchEvent{
		Dataset:  dataset,
		Status:   status,
		Duration: time.Since(start),
		Records:  records,
		Time:     time.Now(),
	}
	if err := c.sink.RecordUpstreamFetch(ev); err != nil {
		c.log.Errorf("record upstream fetch metric: %v", err)
	}
}
