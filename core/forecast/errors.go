package forecast

import (
	"errors"
	"fmt"
	"time"
)

// ErrIncompleteDay marks a date whose upstream feeds do not cover all 24 hours.
// The builder treats it as a signal to continue the backward search.
var ErrIncompleteDay = errors.New("incomplete day coverage")

// DataUnavailableError is returned when no date within the lookback window has
// complete data for all three series, or when an upstream call failed in a way
// that aborts the search (timeout, cancellation).
type DataUnavailableError struct {
	// LastDate is the last date the backward search attempted.
	LastDate time.Time
	Err      error
}

func (e *DataUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("forecast data unavailable, last date tried %s: %v", e.LastDate.Format("2006-01-02"), e.Err)
	}
	return fmt.Sprintf("forecast data unavailable, last date tried %s", e.LastDate.Format("2006-01-02"))
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }
