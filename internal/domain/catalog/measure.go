package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Measure is a shared catalog row describing one unit of quantification
// (e.g. unit "km", type "distance"). Identity for resolution purposes is the
// case-insensitive (unit, measure_type) pair, not the id; the unique index in
// EnsureIndexes enforces that at the storage layer.
type Measure struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Unit        string    `gorm:"type:text;not null;index" json:"unit"`
	MeasureType string    `gorm:"column:measure_type;type:text;not null;index" json:"measure_type"`
	Title       string    `gorm:"type:text;not null" json:"title"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Measure) TableName() string { return "measure" }
