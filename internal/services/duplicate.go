package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/lodestone-app/lodestone-backend/internal/data/repos"
	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/normalization"
	"github.com/lodestone-app/lodestone-backend/internal/pkg/apperr"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
	"github.com/lodestone-app/lodestone-backend/internal/utils"
)

// Severity bands, derived from similarity alone. Severity is recomputed from
// the stored similarity on every read and never trusted as independently
// authoritative.
const (
	thresholdExact    = 0.95
	thresholdHigh     = 0.85
	thresholdModerate = 0.70
	thresholdLow      = 0.50
)

// SeverityForSimilarity maps a similarity in [0,1] to a severity band, or ""
// when the pair is below the candidate floor.
func SeverityForSimilarity(similarity float64) string {
	switch {
	case similarity >= thresholdExact:
		return types.SeverityExact
	case similarity >= thresholdHigh:
		return types.SeverityHigh
	case similarity >= thresholdModerate:
		return types.SeverityModerate
	case similarity >= thresholdLow:
		return types.SeverityLow
	default:
		return ""
	}
}

// CandidateView pairs a ledger row with its derived severity.
type CandidateView struct {
	*types.DuplicateCandidate
	Severity string `json:"severity"`
}

// DuplicateService owns the similarity scan and the candidate ledger state
// machine. Scans are best-effort: every failure is logged and swallowed so
// entity creation is never blocked by deduplication.
type DuplicateService interface {
	// ScanEntity compares the entity's title-only embedding against cached
	// same-type embeddings and records a pending candidate for every pair
	// at or above the low threshold, unless one is already pending. The
	// full-context embedding is warmed as a side effect.
	ScanEntity(ctx context.Context, entityType string, entityID uuid.UUID, snap EntitySnapshot) error
	// ScanEntityAsync runs ScanEntity detached from the caller's request.
	ScanEntityAsync(entityType string, entityID uuid.UUID, snap EntitySnapshot)
	// Drain blocks until every detached scan has finished. Called on
	// shutdown so in-flight scans are not cut off mid-write.
	Drain()

	List(ctx context.Context, status string) ([]CandidateView, error)
	Resolve(ctx context.Context, id uuid.UUID, resolution, notes string) (*CandidateView, error)
	Ignore(ctx context.Context, id uuid.UUID, notes string) (*CandidateView, error)
	Merge(ctx context.Context, id uuid.UUID, resolution, notes string) (*CandidateView, error)
}

type duplicateService struct {
	db         *gorm.DB
	log        *logger.Logger
	embeddings EmbeddingService
	signatures SignatureService
	records    repos.EmbeddingRecordRepo
	candidates repos.DuplicateCandidateRepo

	lowThreshold   float64
	prefilterFloor float64
	concurrency    int

	wg sync.WaitGroup
}

func NewDuplicateService(
	db *gorm.DB,
	baseLog *logger.Logger,
	embeddings EmbeddingService,
	signatures SignatureService,
	records repos.EmbeddingRecordRepo,
	candidates repos.DuplicateCandidateRepo,
) DuplicateService {
	log := baseLog.With("service", "DuplicateService")
	return &duplicateService{
		db:             db,
		log:            log,
		embeddings:     embeddings,
		signatures:     signatures,
		records:        records,
		candidates:     candidates,
		lowThreshold:   utils.GetEnvAsFloat("DEDUP_LOW_THRESHOLD", thresholdLow, log),
		prefilterFloor: utils.GetEnvAsFloat("DEDUP_PREFILTER_FLOOR", 0.20, log),
		concurrency:    utils.GetEnvAsInt("DEDUP_SCAN_CONCURRENCY", 4, log),
	}
}

func (s *duplicateService) ScanEntityAsync(entityType string, entityID uuid.UUID, snap EntitySnapshot) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := s.ScanEntity(ctx, entityType, entityID, snap); err != nil {
			s.log.Warn("duplicate scan failed", "entity_type", entityType, "entity_id", entityID, "error", err)
		}
	}()
}

func (s *duplicateService) Drain() {
	s.wg.Wait()
}

type scanHit struct {
	otherID    uuid.UUID
	similarity float64
}

func (s *duplicateService) ScanEntity(ctx context.Context, entityType string, entityID uuid.UUID, snap EntitySnapshot) error {
	subjectText := normalization.Normalize(BuildText(types.VariantTitleOnly, snap))
	if subjectText == "" {
		return nil
	}

	build := func(v types.Variant) string { return BuildText(v, snap) }

	subjectVec, err := s.embeddings.GetOrGenerate(ctx, entityType, entityID, types.VariantTitleOnly, build)
	if err != nil {
		return fmt.Errorf("embed subject: %w", err)
	}
	if subjectVec == nil {
		// Empty text or provider unavailable: dedup is best-effort.
		return nil
	}

	// Warm the full-context cache while we are here; failures only cost the
	// cache entry.
	if _, err := s.embeddings.GetOrGenerate(ctx, entityType, entityID, types.VariantFullContext, build); err != nil {
		s.log.Debug("full-context embed failed", "entity_id", entityID, "error", err)
	}

	subjectSig := s.subjectSignature(ctx, entityType, entityID, subjectText)

	others, err := s.records.ListLatestByType(ctx, nil, entityType, types.VariantTitleOnly)
	if err != nil {
		return fmt.Errorf("list cached embeddings: %w", err)
	}

	var (
		mu   sync.Mutex
		hits []scanHit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, other := range others {
		if other.EntityID == entityID {
			continue
		}
		g.Go(func() error {
			sim, ok := s.compare(gctx, subjectVec, subjectSig, other)
			if !ok || sim < s.lowThreshold {
				return nil
			}
			mu.Lock()
			hits = append(hits, scanHit{otherID: other.EntityID, similarity: sim})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Deterministic ledger write order.
	sort.Slice(hits, func(i, j int) bool { return hits[i].otherID.String() < hits[j].otherID.String() })

	for _, hit := range hits {
		if err := s.recordCandidate(ctx, entityType, entityID, hit.otherID, hit.similarity); err != nil {
			s.log.Warn("record duplicate candidate failed",
				"entity_type", entityType, "entity_id", entityID, "other_id", hit.otherID, "error", err)
		}
	}
	return nil
}

// subjectSignature keeps the signature store fresh for the subject; a nil
// return just disables the pre-filter for this pass.
func (s *duplicateService) subjectSignature(ctx context.Context, entityType string, entityID uuid.UUID, text string) []uint64 {
	sig, err := s.signatures.GetOrCompute(ctx, entityType, entityID, text)
	if err != nil {
		s.log.Debug("signature compute failed, scanning without pre-filter", "entity_id", entityID, "error", err)
		return nil
	}
	slots, err := DeserializeSignature(sig.Signature)
	if err != nil {
		s.log.Debug("stored signature unreadable, scanning without pre-filter", "entity_id", entityID, "error", err)
		return nil
	}
	return slots
}

func (s *duplicateService) compare(ctx context.Context, subjectVec []float32, subjectSig []uint64, other *types.EmbeddingRecord) (float64, bool) {
	if subjectSig != nil {
		otherSig, err := s.signatures.GetOrCompute(ctx, other.EntityType, other.EntityID, other.SourceText)
		if err == nil {
			if slots, derr := DeserializeSignature(otherSig.Signature); derr == nil {
				if s.signatures.EstimateSimilarity(subjectSig, slots) < s.prefilterFloor {
					return 0, false
				}
			}
		}
	}

	otherVec, err := decodeVector(other.Vector, other.Dim)
	if err != nil {
		s.log.Debug("stored vector unreadable, skipping pair", "other_id", other.EntityID, "error", err)
		return 0, false
	}
	sim := Cosine(subjectVec, otherVec)
	if math.IsNaN(sim) {
		return 0, false
	}
	return sim, true
}

func (s *duplicateService) recordCandidate(ctx context.Context, entityType string, a, b uuid.UUID, similarity float64) error {
	id1, id2 := types.OrderPair(a, b)
	existing, err := s.candidates.GetPendingByPair(ctx, nil, entityType, id1, id2)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = s.candidates.Create(ctx, nil, &types.DuplicateCandidate{
		ID:         uuid.New(),
		EntityType: entityType,
		Entity1ID:  id1,
		Entity2ID:  id2,
		Similarity: clamp01(similarity),
		Status:     types.CandidateStatusPending,
		CreatedAt:  time.Now().UTC(),
	})
	if apperr.IsDuplicate(err) {
		// Concurrent scan recorded the pair first.
		return nil
	}
	return err
}

func (s *duplicateService) List(ctx context.Context, status string) ([]CandidateView, error) {
	rows, err := s.candidates.ListByStatus(ctx, nil, status)
	if err != nil {
		return nil, err
	}
	out := make([]CandidateView, 0, len(rows))
	for _, row := range rows {
		out = append(out, CandidateView{DuplicateCandidate: row, Severity: SeverityForSimilarity(row.Similarity)})
	}
	return out, nil
}

func (s *duplicateService) Resolve(ctx context.Context, id uuid.UUID, resolution, notes string) (*CandidateView, error) {
	switch resolution {
	case types.ResolutionKeptBoth, types.ResolutionDeleted1, types.ResolutionDeleted2:
	default:
		return nil, apperr.OutOfRange("resolution", fmt.Sprintf("%q is not a valid resolution", resolution))
	}
	return s.transition(ctx, id, types.CandidateStatusResolved, resolution, notes)
}

func (s *duplicateService) Ignore(ctx context.Context, id uuid.UUID, notes string) (*CandidateView, error) {
	return s.transition(ctx, id, types.CandidateStatusIgnored, "", notes)
}

// Merge records the ledger transition only; merging the underlying entities
// is the caller's follow-up once the transition succeeds.
func (s *duplicateService) Merge(ctx context.Context, id uuid.UUID, resolution, notes string) (*CandidateView, error) {
	switch resolution {
	case types.ResolutionMergedInto1, types.ResolutionMergedInto2:
	default:
		return nil, apperr.OutOfRange("resolution", fmt.Sprintf("%q is not a valid merge resolution", resolution))
	}
	return s.transition(ctx, id, types.CandidateStatusMerged, resolution, notes)
}

// transition moves a pending candidate to a terminal status. One-way: a
// closed candidate rejects further transitions without touching its stored
// timestamps.
func (s *duplicateService) transition(ctx context.Context, id uuid.UUID, status, resolution, notes string) (*CandidateView, error) {
	var out *CandidateView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		row, err := s.candidates.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if row == nil {
			return apperr.InvalidReference("id", "duplicate candidate not found")
		}
		if row.Status != types.CandidateStatusPending {
			return apperr.InvalidState(fmt.Sprintf("candidate is already %s", row.Status))
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"status":      status,
			"reviewed_at": now,
		}
		if resolution != "" {
			updates["resolution"] = resolution
		}
		if notes != "" {
			updates["notes"] = notes
		}
		if status == types.CandidateStatusResolved || status == types.CandidateStatusMerged {
			updates["resolved_at"] = now
		}
		if err := s.candidates.UpdateFields(ctx, tx, id, updates); err != nil {
			return err
		}

		row, err = s.candidates.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		out = &CandidateView{DuplicateCandidate: row, Severity: SeverityForSimilarity(row.Similarity)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cosine returns the cosine similarity of two vectors, NaN when either has
// zero magnitude or the dimensions disagree.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.NaN()
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return math.NaN()
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
