package services

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lodestone-app/lodestone-backend/internal/data/repos"
	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/pkg/apperr"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

// MeasureResolver is the single write path into the measure catalog. Entity
// coordinators never insert measures directly; they resolve through here so
// the catalog grows on demand without accumulating case-variant duplicates.
type MeasureResolver interface {
	// GetOrCreate returns the measure matching (unit, measureType)
	// case-insensitively, creating it when absent. Lookup never mutates an
	// existing row. Called before the enclosing write transaction opens;
	// a measure created here survives a later rollback by design.
	GetOrCreate(ctx context.Context, unit, measureType, title string) (*types.Measure, error)
}

type measureResolver struct {
	db       *gorm.DB
	log      *logger.Logger
	measures repos.MeasureRepo
}

func NewMeasureResolver(db *gorm.DB, baseLog *logger.Logger, measures repos.MeasureRepo) MeasureResolver {
	return &measureResolver{
		db:       db,
		log:      baseLog.With("service", "MeasureResolver"),
		measures: measures,
	}
}

func (s *measureResolver) GetOrCreate(ctx context.Context, unit, measureType, title string) (*types.Measure, error) {
	unit = strings.TrimSpace(unit)
	measureType = strings.TrimSpace(measureType)
	if unit == "" {
		return nil, apperr.Required("unit")
	}
	if measureType == "" {
		return nil, apperr.Required("measure_type")
	}

	existing, err := s.measures.GetByUnitAndType(ctx, nil, unit, measureType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if strings.TrimSpace(title) == "" {
		title = capitalize(unit)
	}
	row := &types.Measure{
		ID:          uuid.New(),
		Unit:        unit,
		MeasureType: measureType,
		Title:       title,
	}
	created, err := s.measures.Create(ctx, nil, row)
	if err != nil {
		// The unique index on (lower(unit), lower(measure_type)) means a
		// concurrent resolver won the insert; return its row.
		if apperr.IsDuplicate(err) {
			winner, getErr := s.measures.GetByUnitAndType(ctx, nil, unit, measureType)
			if getErr != nil {
				return nil, getErr
			}
			if winner != nil {
				s.log.Debug("measure insert lost race, reusing winner",
					"unit", unit, "measure_type", measureType, "measure_id", winner.ID)
				return winner, nil
			}
		}
		return nil, err
	}
	s.log.Debug("created measure", "unit", unit, "measure_type", measureType, "measure_id", created.ID)
	return created, nil
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
