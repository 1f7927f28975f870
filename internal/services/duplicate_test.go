package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/lodestone-app/lodestone-backend/internal/data/repos"
	"github.com/lodestone-app/lodestone-backend/internal/data/repos/testutil"
	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/pkg/apperr"
	pkgerrors "github.com/lodestone-app/lodestone-backend/internal/pkg/errors"
)

func TestSeverityForSimilarity(t *testing.T) {
	cases := []struct {
		similarity float64
		want       string
	}{
		{0.99, types.SeverityExact},
		{0.95, types.SeverityExact},
		{0.90, types.SeverityHigh},
		{0.85, types.SeverityHigh},
		{0.80, types.SeverityModerate},
		{0.70, types.SeverityModerate},
		{0.55, types.SeverityLow},
		{0.50, types.SeverityLow},
		{0.40, ""},
		{0, ""},
	}
	for _, tc := range cases {
		if got := SeverityForSimilarity(tc.similarity); got != tc.want {
			t.Fatalf("SeverityForSimilarity(%v) = %q, want %q", tc.similarity, got, tc.want)
		}
	}
}

func TestCosine(t *testing.T) {
	if sim := Cosine([]float32{1, 0}, []float32{1, 0}); math.Abs(sim-1) > 1e-9 {
		t.Fatalf("identical vectors: %f", sim)
	}
	if sim := Cosine([]float32{1, 0}, []float32{0, 1}); math.Abs(sim) > 1e-9 {
		t.Fatalf("orthogonal vectors: %f", sim)
	}
	if !math.IsNaN(Cosine([]float32{0, 0}, []float32{1, 0})) {
		t.Fatal("zero magnitude should be NaN")
	}
	if !math.IsNaN(Cosine([]float32{1}, []float32{1, 0})) {
		t.Fatal("dimension mismatch should be NaN")
	}
}

func newTestDuplicates(t *testing.T, client EmbedClient) (DuplicateService, repos.EmbeddingRecordRepo, repos.DuplicateCandidateRepo) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	recordRepo := repos.NewEmbeddingRecordRepo(db, log)
	sigRepo := repos.NewEntitySignatureRepo(db, log)
	candidateRepo := repos.NewDuplicateCandidateRepo(db, log)
	embeddings := NewEmbeddingService(db, log, recordRepo, client)
	signatures := NewSignatureService(db, log, sigRepo)
	return NewDuplicateService(db, log, embeddings, signatures, recordRepo, candidateRepo), recordRepo, candidateRepo
}

func seedEmbedding(t *testing.T, recordRepo repos.EmbeddingRecordRepo, entityType string, entityID uuid.UUID, title string, vec []float32) {
	t.Helper()
	encoded, err := json.Marshal(vec)
	if err != nil {
		t.Fatalf("encode vector: %v", err)
	}
	_, err = recordRepo.Create(context.Background(), nil, &types.EmbeddingRecord{
		ID:          uuid.New(),
		EntityType:  entityType,
		EntityID:    entityID,
		Variant:     types.VariantTitleOnly,
		ContentHash: title + "-hash",
		Model:       "test-embed-1",
		Dim:         len(vec),
		Vector:      datatypes.JSON(encoded),
		SourceText:  title,
		GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed embedding: %v", err)
	}
}

func TestScanEntityRecordsPendingCandidateOnce(t *testing.T) {
	entityType := "goal_scan_" + uuid.NewString()[:8]
	client := &stubEmbedClient{model: "test-embed-1", vec: []float32{0.6, 0.8}}
	svc, recordRepo, candidateRepo := newTestDuplicates(t, client)
	ctx := context.Background()

	subjectID := uuid.New()
	otherID := uuid.New()
	// The cached neighbor has the same title and vector as the subject.
	seedEmbedding(t, recordRepo, entityType, otherID, "Run a marathon in under four hours", []float32{0.6, 0.8})

	if err := svc.ScanEntity(ctx, entityType, subjectID, EntitySnapshot{Title: "Run a marathon in under four hours"}); err != nil {
		t.Fatalf("scan: %v", err)
	}

	id1, id2 := types.OrderPair(subjectID, otherID)
	pending, err := candidateRepo.GetPendingByPair(ctx, nil, entityType, id1, id2)
	if err != nil {
		t.Fatalf("lookup pending pair: %v", err)
	}
	if pending == nil {
		t.Fatal("scan recorded no candidate for an identical pair")
	}
	if pending.Similarity < 0.99 {
		t.Fatalf("identical vectors scored %f", pending.Similarity)
	}
	if SeverityForSimilarity(pending.Similarity) != types.SeverityExact {
		t.Fatalf("expected exact severity, got %q", SeverityForSimilarity(pending.Similarity))
	}

	// Rescanning while the pair is still pending must not add a second row.
	if err := svc.ScanEntity(ctx, entityType, subjectID, EntitySnapshot{Title: "Run a marathon in under four hours"}); err != nil {
		t.Fatalf("rescan: %v", err)
	}
	rows, err := candidateRepo.ListByEntity(ctx, nil, entityType, subjectID)
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rescan duplicated the ledger entry: %d rows", len(rows))
	}
}

func TestScanEntitySkipsDissimilarPairs(t *testing.T) {
	entityType := "goal_scan_" + uuid.NewString()[:8]
	client := &stubEmbedClient{model: "test-embed-1", vec: []float32{1, 0}}
	svc, recordRepo, candidateRepo := newTestDuplicates(t, client)
	ctx := context.Background()

	subjectID := uuid.New()
	otherID := uuid.New()
	seedEmbedding(t, recordRepo, entityType, otherID, "quarterly tax filing paperwork", []float32{0, 1})

	if err := svc.ScanEntity(ctx, entityType, subjectID, EntitySnapshot{Title: "Run a marathon"}); err != nil {
		t.Fatalf("scan: %v", err)
	}
	rows, err := candidateRepo.ListByEntity(ctx, nil, entityType, subjectID)
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("orthogonal pair should record nothing, found %d rows", len(rows))
	}
}

func TestScanEntityDegradesWhenProviderDown(t *testing.T) {
	entityType := "goal_scan_" + uuid.NewString()[:8]
	client := &stubEmbedClient{model: "test-embed-1", err: fmt.Errorf("%w: connection refused", pkgerrors.ErrProviderUnavailable)}
	svc, _, candidateRepo := newTestDuplicates(t, client)
	ctx := context.Background()

	subjectID := uuid.New()
	if err := svc.ScanEntity(ctx, entityType, subjectID, EntitySnapshot{Title: "Run a marathon"}); err != nil {
		t.Fatalf("scan should swallow provider unavailability: %v", err)
	}
	rows, err := candidateRepo.ListByEntity(ctx, nil, entityType, subjectID)
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	if len(rows) != 0 {
		t.Fatal("no candidates expected with the provider down")
	}
}

func TestScanEntityAsyncDrainWaitsForScans(t *testing.T) {
	entityType := "goal_scan_" + uuid.NewString()[:8]
	client := &stubEmbedClient{model: "test-embed-1", vec: []float32{0.6, 0.8}}
	svc, recordRepo, candidateRepo := newTestDuplicates(t, client)
	ctx := context.Background()

	subjectID := uuid.New()
	otherID := uuid.New()
	seedEmbedding(t, recordRepo, entityType, otherID, "Run a marathon in under four hours", []float32{0.6, 0.8})

	svc.ScanEntityAsync(entityType, subjectID, EntitySnapshot{Title: "Run a marathon in under four hours"})
	svc.Drain()

	// After Drain returns, the detached scan has finished its ledger write.
	id1, id2 := types.OrderPair(subjectID, otherID)
	pending, err := candidateRepo.GetPendingByPair(ctx, nil, entityType, id1, id2)
	if err != nil {
		t.Fatalf("lookup pending pair: %v", err)
	}
	if pending == nil {
		t.Fatal("drain returned before the scan recorded its candidate")
	}
}

func seedCandidate(t *testing.T, candidateRepo repos.DuplicateCandidateRepo, entityType string, similarity float64) *types.DuplicateCandidate {
	t.Helper()
	id1, id2 := types.OrderPair(uuid.New(), uuid.New())
	row, err := candidateRepo.Create(context.Background(), nil, &types.DuplicateCandidate{
		ID:         uuid.New(),
		EntityType: entityType,
		Entity1ID:  id1,
		Entity2ID:  id2,
		Similarity: similarity,
		Status:     types.CandidateStatusPending,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed candidate: %v", err)
	}
	return row
}

func TestCandidateResolveIsOneWay(t *testing.T) {
	entityType := "goal_ledger_" + uuid.NewString()[:8]
	client := &stubEmbedClient{model: "test-embed-1", vec: []float32{1}}
	svc, _, candidateRepo := newTestDuplicates(t, client)
	ctx := context.Background()

	seeded := seedCandidate(t, candidateRepo, entityType, 0.91)

	view, err := svc.Resolve(ctx, seeded.ID, types.ResolutionKeptBoth, "both are real goals")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if view.Status != types.CandidateStatusResolved {
		t.Fatalf("status = %q", view.Status)
	}
	if view.Resolution != types.ResolutionKeptBoth {
		t.Fatalf("resolution = %q", view.Resolution)
	}
	if view.ReviewedAt == nil || view.ResolvedAt == nil {
		t.Fatal("resolve must stamp reviewed_at and resolved_at")
	}
	if view.Severity != types.SeverityHigh {
		t.Fatalf("severity = %q, want high", view.Severity)
	}

	// A closed candidate rejects any further transition.
	var ve *apperr.ValidationError
	if _, err := svc.Ignore(ctx, seeded.ID, ""); !errors.As(err, &ve) || ve.Code != apperr.CodeInvalidState {
		t.Fatalf("second transition: got %v", err)
	}

	// And the stored timestamps are untouched by the rejected attempt.
	reloaded, err := candidateRepo.GetByID(ctx, nil, seeded.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != types.CandidateStatusResolved {
		t.Fatalf("status mutated to %q", reloaded.Status)
	}
	if !reloaded.ResolvedAt.Equal(*view.ResolvedAt) {
		t.Fatal("resolved_at overwritten by rejected transition")
	}
}

func TestCandidateIgnoreLeavesResolvedAtEmpty(t *testing.T) {
	entityType := "goal_ledger_" + uuid.NewString()[:8]
	client := &stubEmbedClient{model: "test-embed-1", vec: []float32{1}}
	svc, _, candidateRepo := newTestDuplicates(t, client)
	ctx := context.Background()

	seeded := seedCandidate(t, candidateRepo, entityType, 0.72)

	view, err := svc.Ignore(ctx, seeded.ID, "false positive")
	if err != nil {
		t.Fatalf("ignore: %v", err)
	}
	if view.Status != types.CandidateStatusIgnored {
		t.Fatalf("status = %q", view.Status)
	}
	if view.ReviewedAt == nil {
		t.Fatal("ignore must stamp reviewed_at")
	}
	if view.ResolvedAt != nil {
		t.Fatal("ignore must not stamp resolved_at")
	}
	if view.Notes != "false positive" {
		t.Fatalf("notes = %q", view.Notes)
	}
}

func TestCandidateMergeValidatesResolution(t *testing.T) {
	entityType := "goal_ledger_" + uuid.NewString()[:8]
	client := &stubEmbedClient{model: "test-embed-1", vec: []float32{1}}
	svc, _, candidateRepo := newTestDuplicates(t, client)
	ctx := context.Background()

	seeded := seedCandidate(t, candidateRepo, entityType, 0.97)

	var ve *apperr.ValidationError
	if _, err := svc.Merge(ctx, seeded.ID, types.ResolutionKeptBoth, ""); !errors.As(err, &ve) || ve.Code != apperr.CodeOutOfRange {
		t.Fatalf("merge with non-merge resolution: got %v", err)
	}

	view, err := svc.Merge(ctx, seeded.ID, types.ResolutionMergedInto1, "")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if view.Status != types.CandidateStatusMerged || view.Resolution != types.ResolutionMergedInto1 {
		t.Fatalf("merge stored %q/%q", view.Status, view.Resolution)
	}
	if view.ResolvedAt == nil {
		t.Fatal("merge must stamp resolved_at")
	}
}

func TestResolveUnknownCandidate(t *testing.T) {
	client := &stubEmbedClient{model: "test-embed-1", vec: []float32{1}}
	svc, _, _ := newTestDuplicates(t, client)

	var ve *apperr.ValidationError
	if _, err := svc.Resolve(context.Background(), uuid.New(), types.ResolutionKeptBoth, ""); !errors.As(err, &ve) || ve.Code != apperr.CodeInvalidReference {
		t.Fatalf("unknown id: got %v", err)
	}
}
