package events

import "time"

const EmployeeCreatedTopic = "hr.employee.lifecycle.v1"

type EmployeeCreatedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	EmployeeID    string    `json:"employee_id"`
	DepartmentID  string    `json:"department_id"`
	DesignationID string    `json:"designation_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}
