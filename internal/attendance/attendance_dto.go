package attendance

import (
	"go-attendance/internal/employee"
	"go-attendance/internal/shared/optional"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MarkAttendanceRequest records or amends the attendance of one employee
// on one date. For the optional fields, omitting a key keeps the stored
// value and an explicit null clears it.
type MarkAttendanceRequest struct {
	EmployeeID   string                 `json:"employee_id" binding:"required"`
	Date         string                 `json:"date" binding:"required"`
	CheckInTime  optional.Field[string] `json:"check_in_time"`
	CheckOutTime optional.Field[string] `json:"check_out_time"`
	Status       optional.Field[string] `json:"status"`
	Remarks      optional.Field[string] `json:"remarks"`
}

type DateQuery struct {
	Status string `form:"status" binding:"omitempty,attendance_status"`
}

type EmployeeAttendanceQuery struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

type AttendanceResponse struct {
	ID           string                     `json:"id"`
	EmployeeID   string                     `json:"employee_id"`
	Employee     *employee.EmployeeResponse `json:"employee,omitempty"`
	Date         string                     `json:"date"`
	CheckInTime  *string                    `json:"check_in_time"`
	CheckOutTime *string                    `json:"check_out_time"`
	Status       string                     `json:"status"`
	IsLate       bool                       `json:"is_late"`
	LateMinutes  int                        `json:"late_minutes"`
	TotalHours   decimal.Decimal            `json:"total_hours"`
	Remarks      string                     `json:"remarks"`
	CreatedAt    string                     `json:"created_at"`
	UpdatedAt    string                     `json:"updated_at"`
}

type MarkAttendanceResponse struct {
	Attendance AttendanceResponse `json:"attendance"`
	Created    bool               `json:"created"`
}

type DashboardStatsResponse struct {
	Date           string               `json:"date"`
	TodayAbsentees []AttendanceResponse `json:"today_absentees"`
	WeeklyStats    map[string]DayCounts `json:"weekly_stats"`
}

type MonthlyReportResponse struct {
	Employee         employee.EmployeeResponse `json:"employee"`
	Month            string                    `json:"month"`
	TotalDays        int                       `json:"total_days"`
	WorkingDays      int                       `json:"working_days"`
	PresentDays      int                       `json:"present_days"`
	AbsentDays       int                       `json:"absent_days"`
	HalfDays         int                       `json:"half_days"`
	LeaveDays        int                       `json:"leave_days"`
	HolidayDays      int                       `json:"holiday_days"`
	LateDays         int                       `json:"late_days"`
	TotalHoursWorked decimal.Decimal           `json:"total_hours_worked"`
	TotalLateMinutes int                       `json:"total_late_minutes"`
	AttendanceRate   decimal.Decimal           `json:"attendance_rate"`
	Details          []AttendanceResponse      `json:"details"`
}

// RegisterValidators adds the attendance_status binding tag.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return IsValidStatus(fl.Field().String())
	})
}
