package events

import "go-attendance/internal/shared/optional"

const AttendancePunchTopic = "hr.attendance.punch.v1"

// AttendancePunchEvent is produced by badge readers and other devices.
// Omitted fields keep the stored value, explicit nulls clear it.
type AttendancePunchEvent struct {
	EmployeeID   string                 `json:"employee_id"`
	Date         string                 `json:"date"`
	CheckInTime  optional.Field[string] `json:"check_in_time"`
	CheckOutTime optional.Field[string] `json:"check_out_time"`
	Status       optional.Field[string] `json:"status"`
	Remarks      optional.Field[string] `json:"remarks"`
}
