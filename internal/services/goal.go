package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lodestone-app/lodestone-backend/internal/data/repos"
	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/pkg/apperr"
	pkgerrors "github.com/lodestone-app/lodestone-backend/internal/pkg/errors"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

type GoalForm struct {
	ExpectationForm
	Priority   int        `json:"priority"`
	TargetDate *time.Time `json:"target_date,omitempty"`
}

type GoalView struct {
	Expectation *types.Expectation          `json:"expectation"`
	Goal        *types.Goal                 `json:"goal"`
	Measures    []*types.ExpectationMeasure `json:"measures,omitempty"`
	Alignments  []*types.ValueAlignment     `json:"alignments,omitempty"`
	Term        *types.TermAssignment       `json:"term,omitempty"`
}

// GoalService coordinates goal creation and update: phase-1 form validation,
// pre-transaction measure resolution, one atomic multi-table write with a
// phase-2 referential re-check, then a best-effort duplicate scan.
type GoalService interface {
	Create(ctx context.Context, form *GoalForm) (*GoalView, error)
	Update(ctx context.Context, expectationID uuid.UUID, form *GoalForm) (*GoalView, error)
	Delete(ctx context.Context, expectationID uuid.UUID) error
}

type goalService struct {
	coordinatorCore
	db  *gorm.DB
	log *logger.Logger
	dup DuplicateService

	expectations repos.ExpectationRepo
	goals        repos.GoalRepo
}

func NewGoalService(
	db *gorm.DB,
	baseLog *logger.Logger,
	resolver MeasureResolver,
	dup DuplicateService,
	expectations repos.ExpectationRepo,
	goals repos.GoalRepo,
	measures repos.ExpectationMeasureRepo,
	alignments repos.ValueAlignmentRepo,
	terms repos.TermAssignmentRepo,
	values repos.ValueRepo,
	termRows repos.TermRepo,
	measureRows repos.MeasureRepo,
) GoalService {
	return &goalService{
		coordinatorCore: coordinatorCore{
			resolver:    resolver,
			measures:    measures,
			alignments:  alignments,
			terms:       terms,
			values:      values,
			termRows:    termRows,
			measureRows: measureRows,
		},
		db:           db,
		log:          baseLog.With("service", "GoalService"),
		dup:          dup,
		expectations: expectations,
		goals:        goals,
	}
}

const maxGoalPriority = 5

func (s *goalService) Create(ctx context.Context, form *GoalForm) (*GoalView, error) {
	// Phase 1: nothing touches the database until the form is sound.
	if err := validateExpectationForm(&form.ExpectationForm); err != nil {
		return nil, err
	}
	if form.Priority < 0 || form.Priority > maxGoalPriority {
		return nil, apperr.OutOfRange("priority", "priority must be between 0 and 5")
	}

	// Measure resolution happens before the transaction opens. A measure
	// created here is not rolled back if the write below fails; the
	// catalog grows from use and an unused row is harmless.
	resolved, err := s.resolveMeasures(ctx, form.Measures)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	view := &GoalView{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		expectation := &types.Expectation{
			ID:      uuid.New(),
			Kind:    types.ExpectationKindGoal,
			Title:   form.Title,
			Details: form.Details,
			Notes:   form.Notes,
		}
		if _, err := s.expectations.Create(ctx, tx, expectation); err != nil {
			return err
		}

		goal := &types.Goal{
			ID:            uuid.New(),
			ExpectationID: expectation.ID,
			Priority:      form.Priority,
			TargetDate:    form.TargetDate,
		}
		if _, err := s.goals.Create(ctx, tx, goal); err != nil {
			return err
		}

		measureJunctions, alignmentJunctions, termJunction, err := s.writeJunctions(ctx, tx, expectation.ID, resolved, form.Alignments, form.TermID, now)
		if err != nil {
			return err
		}

		// Phase 2: re-validate the assembled graph before commit.
		if err := s.revalidateGraph(ctx, tx, resolved, form.Alignments, form.TermID); err != nil {
			return err
		}

		view.Expectation = expectation
		view.Goal = goal
		view.Measures = measureJunctions
		view.Alignments = alignmentJunctions
		view.Term = termJunction
		return nil
	})
	if err != nil {
		return nil, mapCoordinatorErr(err)
	}

	snap := SnapshotForExpectation(view.Expectation, view.Measures, unitsByMeasure(resolved))
	s.dup.ScanEntityAsync(types.ExpectationKindGoal, view.Expectation.ID, snap)
	s.log.Info("created goal", "expectation_id", view.Expectation.ID, "measures", len(view.Measures))
	return view, nil
}

func (s *goalService) Update(ctx context.Context, expectationID uuid.UUID, form *GoalForm) (*GoalView, error) {
	if err := validateExpectationForm(&form.ExpectationForm); err != nil {
		return nil, err
	}
	if form.Priority < 0 || form.Priority > maxGoalPriority {
		return nil, apperr.OutOfRange("priority", "priority must be between 0 and 5")
	}

	resolved, err := s.resolveMeasures(ctx, form.Measures)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	view := &GoalView{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		expectation, err := s.expectations.GetByID(ctx, tx, expectationID)
		if err != nil {
			return err
		}
		if expectation == nil || expectation.Kind != types.ExpectationKindGoal {
			return pkgerrors.ErrNotFound
		}
		goal, err := s.goals.GetByExpectationID(ctx, tx, expectationID)
		if err != nil {
			return err
		}
		if goal == nil {
			return pkgerrors.ErrNotFound
		}

		expectation.Title = form.Title
		expectation.Details = form.Details
		expectation.Notes = form.Notes
		if err := s.expectations.Update(ctx, tx, expectation); err != nil {
			return err
		}

		goal.Priority = form.Priority
		goal.TargetDate = form.TargetDate
		if err := s.goals.Update(ctx, tx, goal); err != nil {
			return err
		}

		if err := s.clearJunctions(ctx, tx, expectationID); err != nil {
			return err
		}
		measureJunctions, alignmentJunctions, termJunction, err := s.writeJunctions(ctx, tx, expectationID, resolved, form.Alignments, form.TermID, now)
		if err != nil {
			return err
		}
		if err := s.revalidateGraph(ctx, tx, resolved, form.Alignments, form.TermID); err != nil {
			return err
		}

		view.Expectation = expectation
		view.Goal = goal
		view.Measures = measureJunctions
		view.Alignments = alignmentJunctions
		view.Term = termJunction
		return nil
	})
	if err != nil {
		return nil, mapCoordinatorErr(err)
	}

	snap := SnapshotForExpectation(view.Expectation, view.Measures, unitsByMeasure(resolved))
	s.dup.ScanEntityAsync(types.ExpectationKindGoal, expectationID, snap)
	return view, nil
}

func (s *goalService) Delete(ctx context.Context, expectationID uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		expectation, err := s.expectations.GetByID(ctx, tx, expectationID)
		if err != nil {
			return err
		}
		if expectation == nil || expectation.Kind != types.ExpectationKindGoal {
			return pkgerrors.ErrNotFound
		}
		if err := s.clearJunctions(ctx, tx, expectationID); err != nil {
			return err
		}
		if err := s.goals.SoftDeleteByExpectationIDs(ctx, tx, []uuid.UUID{expectationID}); err != nil {
			return err
		}
		return s.expectations.SoftDeleteByIDs(ctx, tx, []uuid.UUID{expectationID})
	})
	if err != nil {
		return mapCoordinatorErr(err)
	}
	// Embedding and signature rows are left behind for the explicit
	// compaction pass; they are append-mostly derived data.
	return nil
}
