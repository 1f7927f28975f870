package planning

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

type GoalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Goal) (*types.Goal, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Goal, error)
	GetByExpectationID(ctx context.Context, tx *gorm.DB, expectationID uuid.UUID) (*types.Goal, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Goal) error
	SoftDeleteByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) error
}

type goalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo {
	return &goalRepo{db: db, log: baseLog.With("repo", "GoalRepo")}
}

func (r *goalRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Goal) (*types.Goal, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *goalRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Goal, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Goal
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *goalRepo) GetByExpectationID(ctx context.Context, tx *gorm.DB, expectationID uuid.UUID) (*types.Goal, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if expectationID == uuid.Nil {
		return nil, nil
	}
	var out []*types.Goal
	if err := t.WithContext(ctx).Where("expectation_id = ?", expectationID).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *goalRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Goal) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *goalRepo) SoftDeleteByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(expectationIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("expectation_id IN ?", expectationIDs).Delete(&types.Goal{}).Error
}
