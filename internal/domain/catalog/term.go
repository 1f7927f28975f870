package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Term is a planning period (quarter, season, year) expectations are
// assigned to.
type Term struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title    string     `gorm:"type:text;not null" json:"title"`
	StartsOn *time.Time `gorm:"column:starts_on" json:"starts_on,omitempty"`
	EndsOn   *time.Time `gorm:"column:ends_on" json:"ends_on,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Term) TableName() string { return "term" }
