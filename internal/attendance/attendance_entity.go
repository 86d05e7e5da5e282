package attendance

import (
	"time"

	"go-attendance/internal/employee"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusHalfDay = "Half Day"
	StatusHoliday = "Holiday"
	StatusLeave   = "Leave"
)

var validStatuses = map[string]struct{}{
	StatusPresent: {},
	StatusAbsent:  {},
	StatusHalfDay: {},
	StatusHoliday: {},
	StatusLeave:   {},
}

func IsValidStatus(status string) bool {
	_, ok := validStatuses[status]
	return ok
}

// Attendance is one employee's record for one civil day. Date is held as
// midnight UTC; check-in and check-out are instants.
type Attendance struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey"`
	EmployeeID   uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_employee_date,priority:1"`
	Employee     *employee.Employee `gorm:"foreignKey:EmployeeID;references:ID;constraint:OnDelete:RESTRICT"`
	Date         time.Time          `gorm:"type:date;not null;index;uniqueIndex:uq_attendance_employee_date,priority:2"`
	CheckInTime  *time.Time         `gorm:"type:timestamptz"`
	CheckOutTime *time.Time         `gorm:"type:timestamptz"`
	Status       string             `gorm:"size:20;not null;default:Absent;index"`
	IsLate       bool               `gorm:"not null;default:false"`
	LateMinutes  int                `gorm:"not null;default:0"`
	TotalHours   decimal.Decimal    `gorm:"type:numeric(6,2);not null;default:0"`
	Remarks      string             `gorm:"type:text"`
	CreatedAt    time.Time          `gorm:"autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"autoUpdateTime"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// Filter selects records for Query. Zero values are ignored; From and To
// are inclusive civil dates.
type Filter struct {
	EmployeeID string
	Date       *time.Time
	From       *time.Time
	To         *time.Time
	Status     string
	// NewestFirst orders by date descending instead of ascending.
	NewestFirst bool
	// WithEmployee resolves employee, department and designation.
	WithEmployee bool
}
