package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lodestone-app/lodestone-backend/internal/data/repos"
	"github.com/lodestone-app/lodestone-backend/internal/data/repos/testutil"
	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/pkg/apperr"
)

func newTestResolver(t *testing.T) (MeasureResolver, repos.MeasureRepo) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	measureRepo := repos.NewMeasureRepo(db, log)
	return NewMeasureResolver(db, log, measureRepo), measureRepo
}

func uniqueUnit(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

func TestMeasureResolverCreatesThenReuses(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()
	unit := uniqueUnit("km")

	first, err := resolver.GetOrCreate(ctx, unit, "distance", "")
	if err != nil {
		t.Fatalf("first GetOrCreate: %v", err)
	}
	if first.ID == uuid.Nil {
		t.Fatal("created measure has no id")
	}

	second, err := resolver.GetOrCreate(ctx, unit, "distance", "")
	if err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("resolver minted a second measure: %s vs %s", second.ID, first.ID)
	}
}

func TestMeasureResolverCaseInsensitive(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()
	unit := uniqueUnit("km")

	lower, err := resolver.GetOrCreate(ctx, unit, "distance", "")
	if err != nil {
		t.Fatalf("lower GetOrCreate: %v", err)
	}

	// Same identity in different casing must resolve to the same row with
	// its original casing intact.
	upper, err := resolver.GetOrCreate(ctx, "  "+capitalize(unit)+"  ", "Distance", "")
	if err != nil {
		t.Fatalf("upper GetOrCreate: %v", err)
	}
	if upper.ID != lower.ID {
		t.Fatal("case variants resolved to different measures")
	}
	if upper.Unit != unit {
		t.Fatalf("stored casing mutated: %q", upper.Unit)
	}
}

func TestMeasureResolverDefaultTitle(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()
	unit := uniqueUnit("steps")

	m, err := resolver.GetOrCreate(ctx, unit, "count", "")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if m.Title != capitalize(unit) {
		t.Fatalf("default title = %q, want %q", m.Title, capitalize(unit))
	}

	unit2 := uniqueUnit("hr")
	m2, err := resolver.GetOrCreate(ctx, unit2, "duration", "Hours of sleep")
	if err != nil {
		t.Fatalf("GetOrCreate with title: %v", err)
	}
	if m2.Title != "Hours of sleep" {
		t.Fatalf("explicit title not kept: %q", m2.Title)
	}
}

func TestMeasureResolverRejectsBlankIdentity(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	var ve *apperr.ValidationError
	if _, err := resolver.GetOrCreate(ctx, "  ", "distance", ""); !errors.As(err, &ve) || ve.Code != apperr.CodeRequiredField {
		t.Fatalf("blank unit: got %v", err)
	}
	if _, err := resolver.GetOrCreate(ctx, "km", "", ""); !errors.As(err, &ve) || ve.Code != apperr.CodeRequiredField {
		t.Fatalf("blank measure type: got %v", err)
	}
}

func TestMeasureResolverConcurrentGetOrCreate(t *testing.T) {
	resolver, _ := newTestResolver(t)
	db := testutil.DB(t)
	ctx := context.Background()
	unit := uniqueUnit("cal")

	const callers = 8
	results := make([]uuid.UUID, callers)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			m, err := resolver.GetOrCreate(gctx, unit, "energy", "")
			if err != nil {
				return fmt.Errorf("caller %d: %w", i, err)
			}
			results[i] = m.ID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent GetOrCreate: %v", err)
	}

	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Fatalf("caller %d got a different measure: %s vs %s", i, results[i], results[0])
		}
	}

	var count int64
	if err := db.Model(&types.Measure{}).
		Where("lower(unit) = ? AND lower(measure_type) = ?", unit, "energy").
		Count(&count).Error; err != nil {
		t.Fatalf("count measures: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one measure row, found %d", count)
	}
}
