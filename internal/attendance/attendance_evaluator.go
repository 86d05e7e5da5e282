package attendance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultExpectedCheckIn = "09:00"

	halfDayCutoffHour = 12
	msPerHour         = 3_600_000
)

// Evaluator derives status, lateness and worked hours from a record's
// check-in and check-out. Wall-clock rules are evaluated in loc.
type Evaluator struct {
	expectedHour   int
	expectedMinute int
	loc            *time.Location
}

func NewEvaluator(expectedCheckIn string, loc *time.Location) (*Evaluator, error) {
	if expectedCheckIn == "" {
		expectedCheckIn = DefaultExpectedCheckIn
	}
	t, err := time.Parse("15:04", expectedCheckIn)
	if err != nil {
		return nil, fmt.Errorf("invalid expected check-in %q: %w", expectedCheckIn, err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Evaluator{
		expectedHour:   t.Hour(),
		expectedMinute: t.Minute(),
		loc:            loc,
	}, nil
}

func (e *Evaluator) Location() *time.Location {
	return e.loc
}

// Derive recomputes the derived fields of a in place. Without both
// timestamps the caller's status is kept and the derived fields are zero.
// With both, status follows the check-out hour and hours may be negative.
func (e *Evaluator) Derive(a *Attendance) {
	a.IsLate = false
	a.LateMinutes = 0
	a.TotalHours = decimal.Zero

	if a.CheckInTime == nil || a.CheckOutTime == nil {
		return
	}

	checkIn := a.CheckInTime.In(e.loc)
	checkOut := a.CheckOutTime.In(e.loc)

	if checkOut.Hour() < halfDayCutoffHour {
		a.Status = StatusHalfDay
	} else {
		a.Status = StatusPresent
	}

	expected := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(),
		e.expectedHour, e.expectedMinute, 0, 0, e.loc)
	if checkIn.After(expected) {
		a.IsLate = true
		a.LateMinutes = int(checkIn.Sub(expected) / time.Minute)
	}

	ms := checkOut.Sub(checkIn).Milliseconds()
	a.TotalHours = decimal.NewFromInt(ms).Div(decimal.NewFromInt(msPerHour)).Round(2)
}
