package planning

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

type ActionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Action) (*types.Action, error)
	GetByExpectationID(ctx context.Context, tx *gorm.DB, expectationID uuid.UUID) (*types.Action, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Action) error
	SoftDeleteByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) error
}

type actionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActionRepo(db *gorm.DB, baseLog *logger.Logger) ActionRepo {
	return &actionRepo{db: db, log: baseLog.With("repo", "ActionRepo")}
}

func (r *actionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Action) (*types.Action, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *actionRepo) GetByExpectationID(ctx context.Context, tx *gorm.DB, expectationID uuid.UUID) (*types.Action, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if expectationID == uuid.Nil {
		return nil, nil
	}
	var out []*types.Action
	if err := t.WithContext(ctx).Where("expectation_id = ?", expectationID).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *actionRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Action) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *actionRepo) SoftDeleteByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(expectationIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("expectation_id IN ?", expectationIDs).Delete(&types.Action{}).Error
}
