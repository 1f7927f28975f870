package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lodestone-app/lodestone-backend/internal/data/repos"
	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/pkg/apperr"
)

// coordinatorCore holds the pieces shared by every entity coordinator:
// pre-transaction measure resolution, junction assembly and the phase-2
// referential re-check.
type coordinatorCore struct {
	resolver MeasureResolver

	measures    repos.ExpectationMeasureRepo
	alignments  repos.ValueAlignmentRepo
	terms       repos.TermAssignmentRepo
	values      repos.ValueRepo
	termRows    repos.TermRepo
	measureRows repos.MeasureRepo
}

func (c *coordinatorCore) resolveMeasures(ctx context.Context, forms []MeasureTargetForm) ([]resolvedMeasure, error) {
	resolved := make([]resolvedMeasure, 0, len(forms))
	for _, m := range forms {
		measure, err := c.resolver.GetOrCreate(ctx, m.Unit, m.MeasureType, m.Title)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, resolvedMeasure{MeasureID: measure.ID, Unit: measure.Unit, Target: m.Target})
	}
	return resolved, nil
}

func unitsByMeasure(resolved []resolvedMeasure) map[string]string {
	out := make(map[string]string, len(resolved))
	for _, rm := range resolved {
		out[rm.MeasureID.String()] = rm.Unit
	}
	return out
}

func (c *coordinatorCore) writeJunctions(ctx context.Context, tx *gorm.DB, expectationID uuid.UUID, resolved []resolvedMeasure, alignments []AlignmentForm, termID *uuid.UUID, now time.Time) ([]*types.ExpectationMeasure, []*types.ValueAlignment, *types.TermAssignment, error) {
	measureRows, err := c.measures.Create(ctx, tx, buildMeasureRows(expectationID, resolved, now))
	if err != nil {
		return nil, nil, nil, err
	}
	alignmentRows, err := c.alignments.Create(ctx, tx, buildAlignmentRows(expectationID, alignments, now))
	if err != nil {
		return nil, nil, nil, err
	}
	var termRow *types.TermAssignment
	if termID != nil && *termID != uuid.Nil {
		rows, err := c.terms.Create(ctx, tx, []*types.TermAssignment{{
			ID:            uuid.New(),
			ExpectationID: expectationID,
			TermID:        *termID,
			CreatedAt:     now,
		}})
		if err != nil {
			return nil, nil, nil, err
		}
		termRow = rows[0]
	}
	return measureRows, alignmentRows, termRow, nil
}

func (c *coordinatorCore) clearJunctions(ctx context.Context, tx *gorm.DB, expectationID uuid.UUID) error {
	ids := []uuid.UUID{expectationID}
	if err := c.measures.DeleteByExpectationIDs(ctx, tx, ids); err != nil {
		return err
	}
	if err := c.alignments.DeleteByExpectationIDs(ctx, tx, ids); err != nil {
		return err
	}
	return c.terms.DeleteByExpectationIDs(ctx, tx, ids)
}

// revalidateGraph is the phase-2 defensive check: every id the junction rows
// reference must exist before the transaction commits.
func (c *coordinatorCore) revalidateGraph(ctx context.Context, tx *gorm.DB, resolved []resolvedMeasure, alignments []AlignmentForm, termID *uuid.UUID) error {
	if len(resolved) > 0 {
		ids := make([]uuid.UUID, 0, len(resolved))
		for _, rm := range resolved {
			ids = append(ids, rm.MeasureID)
		}
		rows, err := c.measureRows.GetByIDs(ctx, tx, ids)
		if err != nil {
			return err
		}
		if len(rows) != len(ids) {
			return apperr.InvalidReference("measures", "a resolved measure no longer exists")
		}
	}
	if len(alignments) > 0 {
		ids := make([]uuid.UUID, 0, len(alignments))
		for _, a := range alignments {
			ids = append(ids, a.ValueID)
		}
		rows, err := c.values.GetByIDs(ctx, tx, ids)
		if err != nil {
			return err
		}
		if len(rows) != len(ids) {
			return apperr.InvalidReference("alignments", "a referenced value does not exist")
		}
	}
	if termID != nil && *termID != uuid.Nil {
		rows, err := c.termRows.GetByIDs(ctx, tx, []uuid.UUID{*termID})
		if err != nil {
			return err
		}
		if len(rows) != 1 {
			return apperr.InvalidReference("term_id", "the referenced term does not exist")
		}
	}
	return nil
}
