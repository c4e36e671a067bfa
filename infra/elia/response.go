package elia

import "time"

// pageResponse is one page of the explore API record listing.
type pageResponse struct {
	TotalCount int      `json:"total_count"`
	Results    []record `json:"results"`
}

// record is a single reading. Wind and solar datasets carry a region; the
// load dataset is national and leaves it empty.
type record struct {
	Datetime         string  `json:"datetime"`
	Region           string  `json:"region"`
	DayAheadForecast float64 `json:"dayaheadforecast"`
}

func (r record) timestamp() (time.Time, error) {
	return time.Parse(time.RFC3339, r.Datetime)
}
