package dedup

import (
	"time"

	"github.com/google/uuid"
)

const (
	CandidateStatusPending  = "pending"
	CandidateStatusMerged   = "merged"
	CandidateStatusIgnored  = "ignored"
	CandidateStatusResolved = "resolved"
)

const (
	ResolutionMergedInto1 = "merged_into_1"
	ResolutionMergedInto2 = "merged_into_2"
	ResolutionKeptBoth    = "kept_both"
	ResolutionDeleted1    = "deleted_1"
	ResolutionDeleted2    = "deleted_2"
)

const (
	SeverityExact    = "exact"
	SeverityHigh     = "high"
	SeverityModerate = "moderate"
	SeverityLow      = "low"
)

// DuplicateCandidate is a durable record of an entity pair flagged as
// possibly-duplicate. The pair is stored ordered (Entity1ID < Entity2ID by
// string comparison) so the unordered-pair pending check is one indexed
// lookup. Transitions out of pending are one-way; a closed candidate is only
// ever superseded by a new row from a fresh similarity pass.
type DuplicateCandidate struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType string    `gorm:"column:entity_type;type:text;not null;index:idx_duplicate_candidate_pair,priority:1" json:"entity_type"`
	Entity1ID  uuid.UUID `gorm:"column:entity1_id;type:uuid;not null;index:idx_duplicate_candidate_pair,priority:2" json:"entity1_id"`
	Entity2ID  uuid.UUID `gorm:"column:entity2_id;type:uuid;not null;index:idx_duplicate_candidate_pair,priority:3" json:"entity2_id"`
	Similarity float64   `gorm:"not null" json:"similarity"`
	Status     string    `gorm:"type:text;not null;index" json:"status"`
	Resolution string    `gorm:"type:text;not null;default:''" json:"resolution,omitempty"`
	Notes      string    `gorm:"type:text;not null;default:''" json:"notes,omitempty"`

	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	ReviewedAt *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ResolvedAt *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
}

func (DuplicateCandidate) TableName() string { return "duplicate_candidate" }

// OrderPair returns the two ids in storage order.
func OrderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}
