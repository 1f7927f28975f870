package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

type TermRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Term) (*types.Term, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Term, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Term, error)
}

type termRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTermRepo(db *gorm.DB, baseLog *logger.Logger) TermRepo {
	return &termRepo{db: db, log: baseLog.With("repo", "TermRepo")}
}

func (r *termRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Term) (*types.Term, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *termRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Term, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Term
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *termRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Term, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Term
	if err := t.WithContext(ctx).Order("starts_on ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
