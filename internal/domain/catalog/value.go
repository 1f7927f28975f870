package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Value is a personal value an expectation can be aligned with.
type Value struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text;not null;default:''" json:"description,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Value) TableName() string { return "value" }
