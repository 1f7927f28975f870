package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

type MeasureRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Measure) (*types.Measure, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Measure, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Measure, error)
	// GetByUnitAndType matches case-insensitively on both columns.
	GetByUnitAndType(ctx context.Context, tx *gorm.DB, unit, measureType string) (*types.Measure, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Measure, error)
}

type measureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMeasureRepo(db *gorm.DB, baseLog *logger.Logger) MeasureRepo {
	return &measureRepo{db: db, log: baseLog.With("repo", "MeasureRepo")}
}

func (r *measureRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Measure) (*types.Measure, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *measureRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Measure, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *measureRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Measure, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Measure
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *measureRepo) GetByUnitAndType(ctx context.Context, tx *gorm.DB, unit, measureType string) (*types.Measure, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Measure
	if err := t.WithContext(ctx).
		Where("lower(unit) = ? AND lower(measure_type) = ?",
			strings.ToLower(strings.TrimSpace(unit)),
			strings.ToLower(strings.TrimSpace(measureType))).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *measureRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Measure, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Measure
	if err := t.WithContext(ctx).Order("measure_type ASC, unit ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
