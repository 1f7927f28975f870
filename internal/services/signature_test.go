package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lodestone-app/lodestone-backend/internal/data/repos"
	"github.com/lodestone-app/lodestone-backend/internal/data/repos/testutil"
	types "github.com/lodestone-app/lodestone-backend/internal/domain"
)

func newTestSignature(t *testing.T) (SignatureService, repos.EntitySignatureRepo) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	sigRepo := repos.NewEntitySignatureRepo(db, log)
	return NewSignatureService(db, log, sigRepo), sigRepo
}

func TestSignatureComputeDeterministic(t *testing.T) {
	svc, _ := newTestSignature(t)

	a := svc.Compute("Run a marathon next spring")
	b := svc.Compute("  run   a MARATHON next Spring ")
	if len(a) != signatureSlots {
		t.Fatalf("signature has %d slots, want %d", len(a), signatureSlots)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("equivalent texts disagree at slot %d", i)
		}
	}
}

func TestSignatureSimilarityBounds(t *testing.T) {
	svc, _ := newTestSignature(t)

	same := svc.Compute("train for a marathon this year")
	if sim := svc.EstimateSimilarity(same, same); sim != 1.0 {
		t.Fatalf("identical signatures estimate %f, want 1.0", sim)
	}

	other := svc.Compute("quarterly financial report for the board")
	sim := svc.EstimateSimilarity(same, other)
	if sim < 0 || sim > 1 {
		t.Fatalf("similarity out of range: %f", sim)
	}
	if sim == 1.0 {
		t.Fatal("unrelated texts should not estimate as identical")
	}

	// Symmetric.
	if svc.EstimateSimilarity(same, other) != svc.EstimateSimilarity(other, same) {
		t.Fatal("estimate is not symmetric")
	}

	// Mismatched lengths degrade to zero rather than panicking.
	if svc.EstimateSimilarity(same, same[:16]) != 0 {
		t.Fatal("length mismatch should estimate 0")
	}
}

func TestSignatureShortTextFallsBackToWholeString(t *testing.T) {
	svc, _ := newTestSignature(t)

	a := svc.Compute("meditate")
	b := svc.Compute("Meditate")
	if svc.EstimateSimilarity(a, b) != 1.0 {
		t.Fatal("single-word text should produce a stable signature")
	}
}

func TestSerializeSignatureRoundTrip(t *testing.T) {
	svc, _ := newTestSignature(t)

	slots := svc.Compute("drink more water every day")
	decoded, err := DeserializeSignature(SerializeSignature(slots))
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	for i := range slots {
		if decoded[i] != slots[i] {
			t.Fatalf("slot %d changed in round trip", i)
		}
	}

	if _, err := DeserializeSignature([]byte{1, 2, 3}); err == nil {
		t.Fatal("truncated bytes should not deserialize")
	}
}

func TestSignatureGetOrComputePersistsAndReuses(t *testing.T) {
	svc, sigRepo := newTestSignature(t)
	ctx := context.Background()
	entityID := uuid.New()

	first, err := svc.GetOrCompute(ctx, types.ExpectationKindGoal, entityID, "Learn to play guitar")
	if err != nil {
		t.Fatalf("first GetOrCompute: %v", err)
	}
	if first.AlgorithmVersion != SignatureAlgorithmVersion {
		t.Fatalf("stored version %d, want %d", first.AlgorithmVersion, SignatureAlgorithmVersion)
	}

	// Pin a sentinel timestamp so a silent recompute is detectable.
	sentinel := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := testutil.DB(t).Model(&types.EntitySignature{}).
		Where("id = ?", first.ID).
		Update("computed_at", sentinel).Error; err != nil {
		t.Fatalf("pin computed_at: %v", err)
	}

	second, err := svc.GetOrCompute(ctx, types.ExpectationKindGoal, entityID, "  learn TO play   guitar ")
	if err != nil {
		t.Fatalf("second GetOrCompute: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("unchanged content should reuse the stored signature row")
	}
	if second.ComputedAt.Unix() != sentinel.Unix() {
		t.Fatal("unchanged content should not recompute")
	}

	// Content change recomputes in place under the same entity key.
	third, err := svc.GetOrCompute(ctx, types.ExpectationKindGoal, entityID, "Learn to play piano")
	if err != nil {
		t.Fatalf("third GetOrCompute: %v", err)
	}
	if third.ContentSnapshot != "learn to play piano" {
		t.Fatalf("snapshot not refreshed: %q", third.ContentSnapshot)
	}

	stored, err := sigRepo.GetByEntity(ctx, nil, types.ExpectationKindGoal, entityID, SignatureAlgorithmVersion)
	if err != nil {
		t.Fatalf("reload signature: %v", err)
	}
	if stored == nil || stored.ContentSnapshot != "learn to play piano" {
		t.Fatal("recomputed signature not persisted")
	}
}

func TestSignatureStaleness(t *testing.T) {
	svc, _ := newTestSignature(t)

	if !svc.IsStale(nil, SignatureAlgorithmVersion) {
		t.Fatal("missing signature must read as stale")
	}
	old := &types.EntitySignature{AlgorithmVersion: SignatureAlgorithmVersion - 1}
	if !svc.IsStale(old, SignatureAlgorithmVersion) {
		t.Fatal("older algorithm version must read as stale")
	}
	current := &types.EntitySignature{AlgorithmVersion: SignatureAlgorithmVersion}
	if svc.IsStale(current, SignatureAlgorithmVersion) {
		t.Fatal("current version misread as stale")
	}
}
