package planning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Action is the action subtype row for an expectation. Frequency is a
// normalized cadence (daily, weekly, monthly, once); blank means
// unscheduled.
type Action struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExpectationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"expectation_id"`
	Frequency     string    `gorm:"type:text;not null;default:''" json:"frequency,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Action) TableName() string { return "action" }
