package planning

import (
	"time"

	"github.com/google/uuid"
)

// ExpectationMeasure links an expectation to a resolved catalog measure with
// the targeted value. Measure ids are always resolved before the enclosing
// transaction opens.
type ExpectationMeasure struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExpectationID uuid.UUID `gorm:"type:uuid;not null;index:idx_expectation_measure_pair,unique,priority:1" json:"expectation_id"`
	MeasureID     uuid.UUID `gorm:"type:uuid;not null;index:idx_expectation_measure_pair,unique,priority:2;index" json:"measure_id"`
	TargetValue   float64   `gorm:"column:target_value;not null;default:0" json:"target_value"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ExpectationMeasure) TableName() string { return "expectation_measure" }

// ValueAlignment links an expectation to a personal value.
type ValueAlignment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExpectationID uuid.UUID `gorm:"type:uuid;not null;index:idx_value_alignment_pair,unique,priority:1" json:"expectation_id"`
	ValueID       uuid.UUID `gorm:"type:uuid;not null;index:idx_value_alignment_pair,unique,priority:2;index" json:"value_id"`
	Weight        float64   `gorm:"not null;default:1" json:"weight"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ValueAlignment) TableName() string { return "value_alignment" }

// TermAssignment places an expectation into a planning term.
type TermAssignment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExpectationID uuid.UUID `gorm:"type:uuid;not null;index:idx_term_assignment_pair,unique,priority:1" json:"expectation_id"`
	TermID        uuid.UUID `gorm:"type:uuid;not null;index:idx_term_assignment_pair,unique,priority:2;index" json:"term_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (TermAssignment) TableName() string { return "term_assignment" }
