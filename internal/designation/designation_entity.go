package designation

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	DefaultLevel = 1
)

// Designation is a job title. Level orders seniority, starting at 1.
type Designation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:255;not null;uniqueIndex:uq_designation_name"`
	Description string    `gorm:"type:text"`
	Level       int       `gorm:"not null;default:1;check:chk_designation_level,level >= 1"`
	Status      string    `gorm:"size:20;not null;default:active"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
