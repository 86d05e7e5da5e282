package employee

import (
	"time"

	"go-attendance/internal/department"
	"go-attendance/internal/designation"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Employee struct {
	ID            uuid.UUID                `gorm:"type:uuid;primaryKey"`
	Name          string                   `gorm:"size:255;not null"`
	Email         string                   `gorm:"size:255;not null;uniqueIndex:uq_employee_email"`
	PhoneNumber   string                   `gorm:"size:50;not null"`
	DepartmentID  uuid.UUID                `gorm:"type:uuid;not null;index"`
	Department    *department.Department   `gorm:"foreignKey:DepartmentID;references:ID;constraint:OnDelete:RESTRICT"`
	DesignationID uuid.UUID                `gorm:"type:uuid;not null;index"`
	Designation   *designation.Designation `gorm:"foreignKey:DesignationID;references:ID;constraint:OnDelete:RESTRICT"`
	JoiningDate   time.Time                `gorm:"type:date;not null"`
	Status        string                   `gorm:"size:20;not null;default:active"`
	CreatedAt     time.Time                `gorm:"autoCreateTime"`
	UpdatedAt     time.Time                `gorm:"autoUpdateTime"`
}

// Filter narrows FindAll. Empty fields match everything.
type Filter struct {
	DepartmentID  string
	DesignationID string
	Status        string
	Query         string
}
