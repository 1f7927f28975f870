package dedup

import (
	"time"

	"github.com/google/uuid"
)

// EntitySignature stores a precomputed MinHash fingerprint for cheap
// approximate similarity screening. A signature is usable only while
// ContentSnapshot matches the entity's current normalized text and
// AlgorithmVersion matches the active version; otherwise it is stale and is
// recomputed lazily on next access.
type EntitySignature struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType       string    `gorm:"column:entity_type;type:text;not null;index:idx_entity_signature_key,unique,priority:1" json:"entity_type"`
	EntityID         uuid.UUID `gorm:"column:entity_id;type:uuid;not null;index:idx_entity_signature_key,unique,priority:2" json:"entity_id"`
	Signature        []byte    `gorm:"not null" json:"-"`
	ContentSnapshot  string    `gorm:"column:content_snapshot;type:text;not null" json:"content_snapshot"`
	AlgorithmVersion int       `gorm:"column:algorithm_version;not null;index:idx_entity_signature_key,unique,priority:3" json:"algorithm_version"`
	ComputedAt       time.Time `gorm:"column:computed_at;not null" json:"computed_at"`
}

func (EntitySignature) TableName() string { return "entity_signature" }
