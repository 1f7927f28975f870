package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
)

func SeedMeasure(tb testing.TB, ctx context.Context, tx *gorm.DB, unit, measureType string) *types.Measure {
	tb.Helper()
	m := &types.Measure{
		ID:          uuid.New(),
		Unit:        unit,
		MeasureType: measureType,
		Title:       unit,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed measure: %v", err)
	}
	return m
}

func SeedValue(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Value {
	tb.Helper()
	v := &types.Value{
		ID:    uuid.New(),
		Title: title,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed value: %v", err)
	}
	return v
}

func SeedTerm(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Term {
	tb.Helper()
	start := time.Now().UTC()
	end := start.AddDate(0, 3, 0)
	t := &types.Term{
		ID:       uuid.New(),
		Title:    title,
		StartsOn: &start,
		EndsOn:   &end,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed term: %v", err)
	}
	return t
}

func SeedExpectation(tb testing.TB, ctx context.Context, tx *gorm.DB, kind, title string) *types.Expectation {
	tb.Helper()
	e := &types.Expectation{
		ID:    uuid.New(),
		Kind:  kind,
		Title: title,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed expectation: %v", err)
	}
	return e
}

func PtrTime(v time.Time) *time.Time { return &v }
