package planning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ExpectationKindGoal   = "goal"
	ExpectationKindAction = "action"
)

// Expectation is the base entity row shared by goals and actions. Subtype
// rows (Goal, Action) and junction rows hang off it; the whole graph is
// written in one transaction by the coordinators.
type Expectation struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Kind    string    `gorm:"type:text;not null;index" json:"kind"`
	Title   string    `gorm:"type:text;not null" json:"title"`
	Details string    `gorm:"type:text;not null;default:''" json:"details,omitempty"`
	Notes   string    `gorm:"type:text;not null;default:''" json:"notes,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Expectation) TableName() string { return "expectation" }
