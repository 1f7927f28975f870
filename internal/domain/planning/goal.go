package planning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Goal is the goal subtype row for an expectation.
type Goal struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ExpectationID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"expectation_id"`
	Priority      int        `gorm:"not null;default:0" json:"priority"`
	TargetDate    *time.Time `gorm:"column:target_date" json:"target_date,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Goal) TableName() string { return "goal" }
