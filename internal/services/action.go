package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lodestone-app/lodestone-backend/internal/data/repos"
	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/pkg/apperr"
	pkgerrors "github.com/lodestone-app/lodestone-backend/internal/pkg/errors"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

type ActionForm struct {
	ExpectationForm
	Frequency string `json:"frequency,omitempty"`
}

type ActionView struct {
	Expectation *types.Expectation          `json:"expectation"`
	Action      *types.Action               `json:"action"`
	Measures    []*types.ExpectationMeasure `json:"measures,omitempty"`
	Alignments  []*types.ValueAlignment     `json:"alignments,omitempty"`
	Term        *types.TermAssignment       `json:"term,omitempty"`
}

// ActionService mirrors GoalService for the action kind: same two-phase
// validation, same pre-transaction measure resolution, same atomic write.
type ActionService interface {
	Create(ctx context.Context, form *ActionForm) (*ActionView, error)
	Update(ctx context.Context, expectationID uuid.UUID, form *ActionForm) (*ActionView, error)
	Delete(ctx context.Context, expectationID uuid.UUID) error
}

type actionService struct {
	coordinatorCore
	db  *gorm.DB
	log *logger.Logger
	dup DuplicateService

	expectations repos.ExpectationRepo
	actions      repos.ActionRepo
}

func NewActionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	resolver MeasureResolver,
	dup DuplicateService,
	expectations repos.ExpectationRepo,
	actions repos.ActionRepo,
	measures repos.ExpectationMeasureRepo,
	alignments repos.ValueAlignmentRepo,
	terms repos.TermAssignmentRepo,
	values repos.ValueRepo,
	termRows repos.TermRepo,
	measureRows repos.MeasureRepo,
) ActionService {
	return &actionService{
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
		log:          baseLog.With("service", "ActionService"),
		dup:          dup,
		expectations: expectations,
		actions:      actions,
	}
}

var actionFrequencies = map[string]bool{
	"":        true,
	"daily":   true,
	"weekly":  true,
	"monthly": true,
	"once":    true,
}

func validateActionForm(form *ActionForm) error {
	if err := validateExpectationForm(&form.ExpectationForm); err != nil {
		return err
	}
	if !actionFrequencies[strings.ToLower(strings.TrimSpace(form.Frequency))] {
		return apperr.OutOfRange("frequency", "frequency must be one of daily, weekly, monthly, once")
	}
	return nil
}

func (s *actionService) Create(ctx context.Context, form *ActionForm) (*ActionView, error) {
	if err := validateActionForm(form); err != nil {
		return nil, err
	}

	resolved, err := s.resolveMeasures(ctx, form.Measures)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	view := &ActionView{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		expectation := &types.Expectation{
			ID:      uuid.New(),
			Kind:    types.ExpectationKindAction,
			Title:   form.Title,
			Details: form.Details,
			Notes:   form.Notes,
		}
		if _, err := s.expectations.Create(ctx, tx, expectation); err != nil {
			return err
		}

		action := &types.Action{
			ID:            uuid.New(),
			ExpectationID: expectation.ID,
			Frequency:     strings.ToLower(strings.TrimSpace(form.Frequency)),
		}
		if _, err := s.actions.Create(ctx, tx, action); err != nil {
			return err
		}

		measureJunctions, alignmentJunctions, termJunction, err := s.writeJunctions(ctx, tx, expectation.ID, resolved, form.Alignments, form.TermID, now)
		if err != nil {
			return err
		}

		if err := s.revalidateGraph(ctx, tx, resolved, form.Alignments, form.TermID); err != nil {
			return err
		}

		view.Expectation = expectation
		view.Action = action
		view.Measures = measureJunctions
		view.Alignments = alignmentJunctions
		view.Term = termJunction
		return nil
	})
	if err != nil {
		return nil, mapCoordinatorErr(err)
	}

	snap := SnapshotForExpectation(view.Expectation, view.Measures, unitsByMeasure(resolved))
	if view.Action.Frequency != "" {
		snap.Extras = append(snap.Extras, view.Action.Frequency)
	}
	s.dup.ScanEntityAsync(types.ExpectationKindAction, view.Expectation.ID, snap)
	s.log.Info("created action", "expectation_id", view.Expectation.ID, "measures", len(view.Measures))
	return view, nil
}

func (s *actionService) Update(ctx context.Context, expectationID uuid.UUID, form *ActionForm) (*ActionView, error) {
	if err := validateActionForm(form); err != nil {
		return nil, err
	}

	resolved, err := s.resolveMeasures(ctx, form.Measures)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	view := &ActionView{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		expectation, err := s.expectations.GetByID(ctx, tx, expectationID)
		if err != nil {
			return err
		}
		if expectation == nil || expectation.Kind != types.ExpectationKindAction {
			return pkgerrors.ErrNotFound
		}
		action, err := s.actions.GetByExpectationID(ctx, tx, expectationID)
		if err != nil {
			return err
		}
		if action == nil {
			return pkgerrors.ErrNotFound
		}

		expectation.Title = form.Title
		expectation.Details = form.Details
		expectation.Notes = form.Notes
		if err := s.expectations.Update(ctx, tx, expectation); err != nil {
			return err
		}

		action.Frequency = strings.ToLower(strings.TrimSpace(form.Frequency))
		if err := s.actions.Update(ctx, tx, action); err != nil {
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
		view.Action = action
		view.Measures = measureJunctions
		view.Alignments = alignmentJunctions
		view.Term = termJunction
		return nil
	})
	if err != nil {
		return nil, mapCoordinatorErr(err)
	}

	snap := SnapshotForExpectation(view.Expectation, view.Measures, unitsByMeasure(resolved))
	if view.Action.Frequency != "" {
		snap.Extras = append(snap.Extras, view.Action.Frequency)
	}
	s.dup.ScanEntityAsync(types.ExpectationKindAction, expectationID, snap)
	return view, nil
}

func (s *actionService) Delete(ctx context.Context, expectationID uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		expectation, err := s.expectations.GetByID(ctx, tx, expectationID)
		if err != nil {
			return err
		}
		if expectation == nil || expectation.Kind != types.ExpectationKindAction {
			return pkgerrors.ErrNotFound
		}
		if err := s.clearJunctions(ctx, tx, expectationID); err != nil {
			return err
		}
		if err := s.actions.SoftDeleteByExpectationIDs(ctx, tx, []uuid.UUID{expectationID}); err != nil {
			return err
		}
		return s.expectations.SoftDeleteByIDs(ctx, tx, []uuid.UUID{expectationID})
	})
	if err != nil {
		return mapCoordinatorErr(err)
	}
	return nil
}
