package dedup

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

type EmbeddingRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.EmbeddingRecord) (*types.EmbeddingRecord, error)
	// GetByKey is the cache lookup: exact (type, id, variant, hash) match.
	GetByKey(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, variant types.Variant, contentHash string) (*types.EmbeddingRecord, error)
	GetByEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, variant types.Variant) ([]*types.EmbeddingRecord, error)
	// Update rewrites a record in place; used only when the active embedding
	// model changes under an existing content hash.
	Update(ctx context.Context, tx *gorm.DB, row *types.EmbeddingRecord) error
	// ListLatestByType returns, per entity of the given type and variant,
	// only the most recently generated record.
	ListLatestByType(ctx context.Context, tx *gorm.DB, entityType string, variant types.Variant) ([]*types.EmbeddingRecord, error)
	CountByEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, variant types.Variant) (int64, error)
	// DeleteSuperseded removes every record that has a newer sibling for the
	// same (entity_type, entity_id, variant). Returns rows removed.
	DeleteSuperseded(ctx context.Context, tx *gorm.DB, entityType string) (int64, error)
}

type embeddingRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmbeddingRecordRepo(db *gorm.DB, baseLog *logger.Logger) EmbeddingRecordRepo {
	return &embeddingRecordRepo{db: db, log: baseLog.With("repo", "EmbeddingRecordRepo")}
}

func (r *embeddingRecordRepo) Create(ctx context.Context, tx *gorm.DB, row *types.EmbeddingRecord) (*types.EmbeddingRecord, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *embeddingRecordRepo) GetByKey(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, variant types.Variant, contentHash string) (*types.EmbeddingRecord, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.EmbeddingRecord
	if err := t.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ? AND variant = ? AND content_hash = ?",
			entityType, entityID, variant, contentHash).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *embeddingRecordRepo) Update(ctx context.Context, tx *gorm.DB, row *types.EmbeddingRecord) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *embeddingRecordRepo) GetByEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, variant types.Variant) ([]*types.EmbeddingRecord, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.EmbeddingRecord
	if err := t.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ? AND variant = ?", entityType, entityID, variant).
		Order("generated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *embeddingRecordRepo) ListLatestByType(ctx context.Context, tx *gorm.DB, entityType string, variant types.Variant) ([]*types.EmbeddingRecord, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.EmbeddingRecord
	if err := t.WithContext(ctx).
		Where(`entity_type = ? AND variant = ? AND NOT EXISTS (
			SELECT 1 FROM embedding_record newer
			WHERE newer.entity_type = embedding_record.entity_type
			  AND newer.entity_id = embedding_record.entity_id
			  AND newer.variant = embedding_record.variant
			  AND (newer.generated_at > embedding_record.generated_at
			       OR (newer.generated_at = embedding_record.generated_at AND newer.id > embedding_record.id))
		)`, entityType, variant).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *embeddingRecordRepo) CountByEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, variant types.Variant) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.EmbeddingRecord{}).
		Where("entity_type = ? AND entity_id = ? AND variant = ?", entityType, entityID, variant).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *embeddingRecordRepo) DeleteSuperseded(ctx context.Context, tx *gorm.DB, entityType string) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).Exec(`
		DELETE FROM embedding_record
		WHERE entity_type = ? AND EXISTS (
			SELECT 1 FROM embedding_record newer
			WHERE newer.entity_type = embedding_record.entity_type
			  AND newer.entity_id = embedding_record.entity_id
			  AND newer.variant = embedding_record.variant
			  AND (newer.generated_at > embedding_record.generated_at
			       OR (newer.generated_at = embedding_record.generated_at AND newer.id > embedding_record.id))
		)`, entityType)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
