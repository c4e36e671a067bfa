package optimizer

import "fmt"

// InsufficientDataError is returned when the requested load window does not
// fit the available hourly series. It marks a caller input error, not a
// transient upstream condition.
type InsufficientDataError struct {
	SeriesHours   int
	DurationHours int
	StartHour     int
	// Reference marks that the reference window itself was infeasible.
	Reference bool
}

func (e *InsufficientDataError) Error() string {
	if e.Reference {
		return fmt.Sprintf("insufficient data: reference window starting at hour %d with duration %dh exceeds the %dh series",
			e.StartHour, e.DurationHours, e.SeriesHours)
	}
	return fmt.Sprintf("insufficient data: duration %dh exceeds the %dh series", e.DurationHours, e.SeriesHours)
}
