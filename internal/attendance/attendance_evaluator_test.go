package attendance_test

import (
	"testing"
	"time"

	"go-attendance/internal/attendance"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newEvaluator(t *testing.T, loc *time.Location) *attendance.Evaluator {
	t.Helper()
	eval, err := attendance.NewEvaluator("09:00", loc)
	assert.NoError(t, err)
	return eval
}

func clock(loc *time.Location, hh, mm, ss int) *time.Time {
	t := time.Date(2024, time.March, 4, hh, mm, ss, 0, loc)
	return &t
}

func TestNewEvaluator(t *testing.T) {
	_, err := attendance.NewEvaluator("9am", time.UTC)
	assert.Error(t, err)

	eval, err := attendance.NewEvaluator("", nil)
	assert.NoError(t, err)
	assert.Equal(t, time.Local, eval.Location())
}

func TestEvaluator_Derive(t *testing.T) {
	eval := newEvaluator(t, time.UTC)

	tests := []struct {
		name        string
		in, out     *time.Time
		status      string
		isLate      bool
		lateMinutes int
		totalHours  string
	}{
		{"early arrival full day", clock(time.UTC, 8, 45, 0), clock(time.UTC, 18, 0, 0), attendance.StatusPresent, false, 0, "9.25"},
		{"late arrival rounds hours", clock(time.UTC, 9, 20, 0), clock(time.UTC, 18, 30, 0), attendance.StatusPresent, true, 20, "9.17"},
		{"morning only is half day", clock(time.UTC, 9, 0, 0), clock(time.UTC, 11, 0, 0), attendance.StatusHalfDay, false, 0, "2.00"},
		{"check-out 11:59 is half day", clock(time.UTC, 8, 0, 0), clock(time.UTC, 11, 59, 0), attendance.StatusHalfDay, false, 0, "3.98"},
		{"check-out 12:00 is present", clock(time.UTC, 8, 0, 0), clock(time.UTC, 12, 0, 0), attendance.StatusPresent, false, 0, "4.00"},
		{"on time is not late", clock(time.UTC, 9, 0, 0), clock(time.UTC, 17, 0, 0), attendance.StatusPresent, false, 0, "8.00"},
		{"one minute late", clock(time.UTC, 9, 1, 0), clock(time.UTC, 17, 0, 0), attendance.StatusPresent, true, 1, "7.98"},
		{"seconds late counts as late with zero minutes", clock(time.UTC, 9, 0, 59), clock(time.UTC, 17, 0, 0), attendance.StatusPresent, true, 0, "7.98"},
		{"zero duration", clock(time.UTC, 13, 0, 0), clock(time.UTC, 13, 0, 0), attendance.StatusPresent, true, 240, "0.00"},
		{"negative duration keeps sign", clock(time.UTC, 13, 0, 0), clock(time.UTC, 11, 30, 0), attendance.StatusHalfDay, true, 240, "-1.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &attendance.Attendance{CheckInTime: tt.in, CheckOutTime: tt.out, Status: attendance.StatusAbsent}
			eval.Derive(a)

			assert.Equal(t, tt.status, a.Status)
			assert.Equal(t, tt.isLate, a.IsLate)
			assert.Equal(t, tt.lateMinutes, a.LateMinutes)
			assert.Equal(t, tt.totalHours, a.TotalHours.StringFixed(2))
		})
	}
}

func TestEvaluator_Derive_Idempotent(t *testing.T) {
	eval := newEvaluator(t, time.UTC)
	a := &attendance.Attendance{CheckInTime: clock(time.UTC, 9, 20, 0), CheckOutTime: clock(time.UTC, 18, 30, 0)}

	eval.Derive(a)
	first := *a
	eval.Derive(a)

	assert.Equal(t, first.Status, a.Status)
	assert.Equal(t, first.IsLate, a.IsLate)
	assert.Equal(t, first.LateMinutes, a.LateMinutes)
	assert.True(t, first.TotalHours.Equal(a.TotalHours))
}

func TestEvaluator_Derive_IncompleteTimes(t *testing.T) {
	eval := newEvaluator(t, time.UTC)

	t.Run("keeps supplied status and resets derived fields", func(t *testing.T) {
		a := &attendance.Attendance{
			CheckInTime: clock(time.UTC, 9, 30, 0),
			Status:      attendance.StatusLeave,
			IsLate:      true,
			LateMinutes: 30,
			TotalHours:  decimal.NewFromInt(8),
		}
		eval.Derive(a)

		assert.Equal(t, attendance.StatusLeave, a.Status)
		assert.False(t, a.IsLate)
		assert.Zero(t, a.LateMinutes)
		assert.True(t, a.TotalHours.IsZero())
	})

	t.Run("no times", func(t *testing.T) {
		a := &attendance.Attendance{Status: attendance.StatusAbsent}
		eval.Derive(a)

		assert.Equal(t, attendance.StatusAbsent, a.Status)
		assert.False(t, a.IsLate)
		assert.True(t, a.TotalHours.IsZero())
	})
}

func TestEvaluator_Derive_OverridesSuppliedStatus(t *testing.T) {
	eval := newEvaluator(t, time.UTC)
	a := &attendance.Attendance{
		CheckInTime:  clock(time.UTC, 9, 0, 0),
		CheckOutTime: clock(time.UTC, 17, 0, 0),
		Status:       attendance.StatusLeave,
	}
	eval.Derive(a)
	assert.Equal(t, attendance.StatusPresent, a.Status)
}

func TestEvaluator_Derive_UsesLocationWallClock(t *testing.T) {
	wib := time.FixedZone("WIB", 7*60*60)
	eval := newEvaluator(t, wib)

	// 02:30 and 05:00 UTC are 09:30 and 12:00 in WIB.
	a := &attendance.Attendance{
		CheckInTime:  clock(time.UTC, 2, 30, 0),
		CheckOutTime: clock(time.UTC, 5, 0, 0),
	}
	eval.Derive(a)

	assert.Equal(t, attendance.StatusPresent, a.Status)
	assert.True(t, a.IsLate)
	assert.Equal(t, 30, a.LateMinutes)
	assert.Equal(t, "2.50", a.TotalHours.StringFixed(2))
}
