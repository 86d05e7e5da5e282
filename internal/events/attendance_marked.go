package events

import "time"

const AttendanceMarkedTopic = "hr.attendance.marked.v1"

// AttendanceMarkedEvent is emitted after every successful mark, carrying
// the record as stored (derived fields included).
type AttendanceMarkedEvent struct {
	EventType    string     `json:"event_type"`
	RequestID    string     `json:"request_id,omitempty"`
	AttendanceID string     `json:"attendance_id"`
	EmployeeID   string     `json:"employee_id"`
	Date         string     `json:"date"`
	Status       string     `json:"status"`
	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	IsLate       bool       `json:"is_late"`
	LateMinutes  int        `json:"late_minutes"`
	TotalHours   string     `json:"total_hours"`
	Created      bool       `json:"created"`
	OccurredAt   time.Time  `json:"occurred_at"`
}
