package dedup

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

type EntitySignatureRepo interface {
	GetByEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, algorithmVersion int) (*types.EntitySignature, error)
	// Upsert replaces the signature for (entity_type, entity_id,
	// algorithm_version) in place; signatures are derived data, so in-place
	// replacement is safe.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.EntitySignature) error
	DeleteByVersionBelow(ctx context.Context, tx *gorm.DB, algorithmVersion int) (int64, error)
}

type entitySignatureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntitySignatureRepo(db *gorm.DB, baseLog *logger.Logger) EntitySignatureRepo {
	return &entitySignatureRepo{db: db, log: baseLog.With("repo", "EntitySignatureRepo")}
}

func (r *entitySignatureRepo) GetByEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, algorithmVersion int) (*types.EntitySignature, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.EntitySignature
	if err := t.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ? AND algorithm_version = ?", entityType, entityID, algorithmVersion).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *entitySignatureRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.EntitySignature) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "entity_type"},
				{Name: "entity_id"},
				{Name: "algorithm_version"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"signature", "content_snapshot", "computed_at"}),
		}).
		Create(row).Error
}

func (r *entitySignatureRepo) DeleteByVersionBelow(ctx context.Context, tx *gorm.DB, algorithmVersion int) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).
		Where("algorithm_version < ?", algorithmVersion).
		Delete(&types.EntitySignature{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
