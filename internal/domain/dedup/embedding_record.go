package dedup

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Variant names which subset of an entity's fields was concatenated to form
// the embedded text. Closed enumeration: adding a variant means adding a
// text builder alongside it.
type Variant string

const (
	VariantTitleOnly   Variant = "title_only"
	VariantFullContext Variant = "full_context"
)

// EmbeddingRecord caches one generated vector, keyed by content hash so that
// semantically-unchanged text reuses the stored vector. A changed hash
// produces a new row rather than an update; superseded rows stay queryable
// until an explicit compaction pass removes them.
type EmbeddingRecord struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType  string         `gorm:"column:entity_type;type:text;not null;index:idx_embedding_record_key,unique,priority:1;index:idx_embedding_record_entity,priority:1" json:"entity_type"`
	EntityID    uuid.UUID      `gorm:"column:entity_id;type:uuid;not null;index:idx_embedding_record_key,unique,priority:2;index:idx_embedding_record_entity,priority:2" json:"entity_id"`
	Variant     Variant        `gorm:"type:text;not null;index:idx_embedding_record_key,unique,priority:3;index:idx_embedding_record_entity,priority:3" json:"variant"`
	ContentHash string         `gorm:"column:content_hash;type:text;not null;index:idx_embedding_record_key,unique,priority:4;index" json:"content_hash"`
	Model       string         `gorm:"type:text;not null" json:"model"`
	Dim         int            `gorm:"not null" json:"dim"`
	Vector      datatypes.JSON `gorm:"type:jsonb;not null" json:"vector"`
	SourceText  string         `gorm:"column:source_text;type:text;not null;default:''" json:"source_text,omitempty"`
	GeneratedAt time.Time      `gorm:"column:generated_at;not null" json:"generated_at"`
}

func (EmbeddingRecord) TableName() string { return "embedding_record" }
