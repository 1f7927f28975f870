package dedup

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

type DuplicateCandidateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.DuplicateCandidate) (*types.DuplicateCandidate, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DuplicateCandidate, error)
	// GetPendingByPair expects ids already in storage order.
	GetPendingByPair(ctx context.Context, tx *gorm.DB, entityType string, entity1ID, entity2ID uuid.UUID) (*types.DuplicateCandidate, error)
	ListByStatus(ctx context.Context, tx *gorm.DB, status string) ([]*types.DuplicateCandidate, error)
	ListByEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID) ([]*types.DuplicateCandidate, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type duplicateCandidateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDuplicateCandidateRepo(db *gorm.DB, baseLog *logger.Logger) DuplicateCandidateRepo {
	return &duplicateCandidateRepo{db: db, log: baseLog.With("repo", "DuplicateCandidateRepo")}
}

func (r *duplicateCandidateRepo) Create(ctx context.Context, tx *gorm.DB, row *types.DuplicateCandidate) (*types.DuplicateCandidate, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *duplicateCandidateRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DuplicateCandidate, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.DuplicateCandidate
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *duplicateCandidateRepo) GetPendingByPair(ctx context.Context, tx *gorm.DB, entityType string, entity1ID, entity2ID uuid.UUID) (*types.DuplicateCandidate, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.DuplicateCandidate
	if err := t.WithContext(ctx).
		Where("entity_type = ? AND entity1_id = ? AND entity2_id = ? AND status = ?",
			entityType, entity1ID, entity2ID, types.CandidateStatusPending).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *duplicateCandidateRepo) ListByStatus(ctx context.Context, tx *gorm.DB, status string) ([]*types.DuplicateCandidate, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.DuplicateCandidate
	q := t.WithContext(ctx).Order("similarity DESC, created_at ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *duplicateCandidateRepo) ListByEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID) ([]*types.DuplicateCandidate, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.DuplicateCandidate
	if err := t.WithContext(ctx).
		Where("entity_type = ? AND (entity1_id = ? OR entity2_id = ?)", entityType, entityID, entityID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *duplicateCandidateRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.DuplicateCandidate{}).
		Where("id = ?", id).
		Updates(updates).Error
}
