package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

type ValueRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Value) (*types.Value, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Value, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Value, error)
}

type valueRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewValueRepo(db *gorm.DB, baseLog *logger.Logger) ValueRepo {
	return &valueRepo{db: db, log: baseLog.With("repo", "ValueRepo")}
}

func (r *valueRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Value) (*types.Value, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *valueRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Value, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Value
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *valueRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Value, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Value
	if err := t.WithContext(ctx).Order("title ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
