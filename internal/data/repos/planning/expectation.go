package planning

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

type ExpectationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Expectation) (*types.Expectation, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Expectation, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Expectation, error)
	// ListByKind returns live expectations of one kind; the duplicate
	// scanner uses it to enumerate comparison targets.
	ListByKind(ctx context.Context, tx *gorm.DB, kind string) ([]*types.Expectation, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Expectation) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type expectationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExpectationRepo(db *gorm.DB, baseLog *logger.Logger) ExpectationRepo {
	return &expectationRepo{db: db, log: baseLog.With("repo", "ExpectationRepo")}
}

func (r *expectationRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Expectation) (*types.Expectation, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *expectationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Expectation, error) {
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

func (r *expectationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Expectation, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Expectation
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *expectationRepo) ListByKind(ctx context.Context, tx *gorm.DB, kind string) ([]*types.Expectation, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Expectation
	if kind == "" {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("kind = ?", kind).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *expectationRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Expectation) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *expectationRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("id IN ?", ids).Delete(&types.Expectation{}).Error
}
