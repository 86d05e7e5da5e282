package attendance

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/teambition/rrule-go"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"

	dashboardDays = 7
)

type DayCounts struct {
	Absent  int `json:"absent"`
	Present int `json:"present"`
	HalfDay int `json:"half_day"`
}

// WeeklyStats tallies records for today and the six days before it. Every
// day is present in the result, zeroed when it has no records.
func WeeklyStats(today time.Time, records []Attendance) map[string]DayCounts {
	stats := make(map[string]DayCounts, dashboardDays)
	for i := 0; i < dashboardDays; i++ {
		stats[today.AddDate(0, 0, -i).Format(dateLayout)] = DayCounts{}
	}

	for _, r := range records {
		key := r.Date.Format(dateLayout)
		counts, ok := stats[key]
		if !ok {
			continue
		}
		switch r.Status {
		case StatusAbsent:
			counts.Absent++
		case StatusPresent:
			counts.Present++
		case StatusHalfDay:
			counts.HalfDay++
		}
		stats[key] = counts
	}
	return stats
}

type MonthlySummary struct {
	TotalDays        int
	WorkingDays      int
	PresentDays      int
	AbsentDays       int
	HalfDays         int
	LeaveDays        int
	HolidayDays      int
	LateDays         int
	TotalHoursWorked decimal.Decimal
	TotalLateMinutes int
	AttendanceRate   decimal.Decimal
}

func Summarize(year int, month time.Month, records []Attendance) MonthlySummary {
	s := MonthlySummary{
		TotalDays:        DaysInMonth(year, month),
		WorkingDays:      WorkingDays(year, month),
		TotalHoursWorked: decimal.Zero,
	}

	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			s.PresentDays++
		case StatusAbsent:
			s.AbsentDays++
		case StatusHalfDay:
			s.HalfDays++
		case StatusLeave:
			s.LeaveDays++
		case StatusHoliday:
			s.HolidayDays++
		}
		if r.IsLate {
			s.LateDays++
		}
		s.TotalHoursWorked = s.TotalHoursWorked.Add(r.TotalHours)
		s.TotalLateMinutes += r.LateMinutes
	}

	s.AttendanceRate = AttendanceRate(s.PresentDays, s.TotalDays)
	return s
}

// AttendanceRate is present/total as a percentage rounded to 2 places,
// zero when total is zero.
func AttendanceRate(present, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(present)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WorkingDays counts Monday to Friday in the month.
func WorkingDays(year int, month time.Month) int {
	first, last := MonthRange(year, month)

	rr, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   first,
		Until:     last,
		Byweekday: []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR},
	})
	if err != nil {
		return 0
	}

	set := rrule.Set{}
	set.RRule(rr)
	return len(set.Between(first, last, true))
}

// MonthRange returns the first and last civil day of the month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// CivilDate truncates t to its calendar day in loc and returns it as
// midnight UTC, the representation used for Attendance.Date.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
