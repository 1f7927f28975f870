package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lodestone-app/lodestone-backend/internal/data/repos"
	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/normalization"
	pkgerrors "github.com/lodestone-app/lodestone-backend/internal/pkg/errors"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

// EmbeddingService is the content-hash keyed embedding cache. GetOrGenerate
// never fails for provider unavailability: it returns (nil, nil) and the
// caller skips the dedup work for this pass.
type EmbeddingService interface {
	// GetOrGenerate builds the variant text, hashes it and returns the
	// cached vector for (entityType, entityID, variant, contentHash),
	// generating and persisting a new record on miss. Empty built text
	// returns (nil, nil); it is not an error.
	GetOrGenerate(ctx context.Context, entityType string, entityID uuid.UUID, variant types.Variant, build func(types.Variant) string) ([]float32, error)
	// Compact deletes every superseded record (older content hashes) for
	// the given entity type, keeping only the newest row per
	// (entity, variant). Explicit administrative operation.
	Compact(ctx context.Context, entityType string) (int64, error)
}

type embeddingService struct {
	db      *gorm.DB
	log     *logger.Logger
	records repos.EmbeddingRecordRepo
	client  EmbedClient
}

func NewEmbeddingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	records repos.EmbeddingRecordRepo,
	client EmbedClient,
) EmbeddingService {
	return &embeddingService{
		db:      db,
		log:     baseLog.With("service", "EmbeddingService"),
		records: records,
		client:  client,
	}
}

func (s *embeddingService) GetOrGenerate(ctx context.Context, entityType string, entityID uuid.UUID, variant types.Variant, build func(types.Variant) string) ([]float32, error) {
	if entityType == "" || entityID == uuid.Nil {
		return nil, fmt.Errorf("missing entity identity")
	}

	sourceText := build(variant)
	if normalization.Normalize(sourceText) == "" {
		return nil, nil
	}
	contentHash := normalization.ContentHash(sourceText)

	existing, err := s.records.GetByKey(ctx, nil, entityType, entityID, variant, contentHash)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Model == s.client.Model() {
		return decodeVector(existing.Vector, existing.Dim)
	}

	vectors, err := s.client.Embed(ctx, []string{normalization.Normalize(sourceText)})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrProviderUnavailable) {
			s.log.Debug("embed provider unavailable, skipping",
				"entity_type", entityType, "entity_id", entityID, "variant", variant)
			return nil, nil
		}
		return nil, err
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("embed provider returned %d vectors for one input", len(vectors))
	}
	vec := vectors[0]

	encoded, err := json.Marshal(vec)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		// Same content hash, new active model: rewrite in place rather
		// than violating the cache key uniqueness.
		existing.Model = s.client.Model()
		existing.Dim = len(vec)
		existing.Vector = datatypes.JSON(encoded)
		existing.GeneratedAt = time.Now().UTC()
		if err := s.records.Update(ctx, nil, existing); err != nil {
			return nil, err
		}
		return vec, nil
	}

	row := &types.EmbeddingRecord{
		ID:          uuid.New(),
		EntityType:  entityType,
		EntityID:    entityID,
		Variant:     variant,
		ContentHash: contentHash,
		Model:       s.client.Model(),
		Dim:         len(vec),
		Vector:      datatypes.JSON(encoded),
		SourceText:  sourceText,
		GeneratedAt: time.Now().UTC(),
	}
	if _, err := s.records.Create(ctx, nil, row); err != nil {
		// A concurrent caller may have inserted the same key; serve theirs.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			winner, getErr := s.records.GetByKey(ctx, nil, entityType, entityID, variant, contentHash)
			if getErr == nil && winner != nil {
				return decodeVector(winner.Vector, winner.Dim)
			}
		}
		return nil, err
	}
	return vec, nil
}

func (s *embeddingService) Compact(ctx context.Context, entityType string) (int64, error) {
	n, err := s.records.DeleteSuperseded(ctx, nil, entityType)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("compacted superseded embedding records", "entity_type", entityType, "removed", n)
	}
	return n, nil
}

func decodeVector(raw datatypes.JSON, dim int) ([]float32, error) {
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, fmt.Errorf("decode stored vector: %w", err)
	}
	if dim != 0 && len(vec) != dim {
		return nil, fmt.Errorf("stored vector has %d dims, record says %d", len(vec), dim)
	}
	return vec, nil
}
