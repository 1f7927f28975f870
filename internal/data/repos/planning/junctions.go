package planning

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

type ExpectationMeasureRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ExpectationMeasure) ([]*types.ExpectationMeasure, error)
	GetByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) ([]*types.ExpectationMeasure, error)
	DeleteByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) error
}

type expectationMeasureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExpectationMeasureRepo(db *gorm.DB, baseLog *logger.Logger) ExpectationMeasureRepo {
	return &expectationMeasureRepo{db: db, log: baseLog.With("repo", "ExpectationMeasureRepo")}
}

func (r *expectationMeasureRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ExpectationMeasure) ([]*types.ExpectationMeasure, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.ExpectationMeasure{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *expectationMeasureRepo) GetByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) ([]*types.ExpectationMeasure, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ExpectationMeasure
	if len(expectationIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("expectation_id IN ?", expectationIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *expectationMeasureRepo) DeleteByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(expectationIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("expectation_id IN ?", expectationIDs).Delete(&types.ExpectationMeasure{}).Error
}

type ValueAlignmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ValueAlignment) ([]*types.ValueAlignment, error)
	GetByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) ([]*types.ValueAlignment, error)
	DeleteByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) error
}

type valueAlignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewValueAlignmentRepo(db *gorm.DB, baseLog *logger.Logger) ValueAlignmentRepo {
	return &valueAlignmentRepo{db: db, log: baseLog.With("repo", "ValueAlignmentRepo")}
}

func (r *valueAlignmentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ValueAlignment) ([]*types.ValueAlignment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.ValueAlignment{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *valueAlignmentRepo) GetByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) ([]*types.ValueAlignment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ValueAlignment
	if len(expectationIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("expectation_id IN ?", expectationIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *valueAlignmentRepo) DeleteByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(expectationIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("expectation_id IN ?", expectationIDs).Delete(&types.ValueAlignment{}).Error
}

type TermAssignmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.TermAssignment) ([]*types.TermAssignment, error)
	GetByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) ([]*types.TermAssignment, error)
	DeleteByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) error
}

type termAssignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTermAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) TermAssignmentRepo {
	return &termAssignmentRepo{db: db, log: baseLog.With("repo", "TermAssignmentRepo")}
}

func (r *termAssignmentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.TermAssignment) ([]*types.TermAssignment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.TermAssignment{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *termAssignmentRepo) GetByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) ([]*types.TermAssignment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.TermAssignment
	if len(expectationIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("expectation_id IN ?", expectationIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *termAssignmentRepo) DeleteByExpectationIDs(ctx context.Context, tx *gorm.DB, expectationIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(expectationIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("expectation_id IN ?", expectationIDs).Delete(&types.TermAssignment{}).Error
}
