package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
	"github.com/lodestone-app/lodestone-backend/internal/pkg/apperr"
	pkgerrors "github.com/lodestone-app/lodestone-backend/internal/pkg/errors"
)

// MeasureTargetForm references a catalog measure by its resolution identity
// (unit, measureType), not by id: callers never hand ids into the catalog,
// the resolver does.
type MeasureTargetForm struct {
	Unit        string  `json:"unit"`
	MeasureType string  `json:"measure_type"`
	Title       string  `json:"title,omitempty"`
	Target      float64 `json:"target"`
}

type AlignmentForm struct {
	ValueID uuid.UUID `json:"value_id"`
	Weight  float64   `json:"weight"`
}

// ExpectationForm carries the fields shared by goal and action creation.
type ExpectationForm struct {
	Title   string `json:"title"`
	Details string `json:"details,omitempty"`
	Notes   string `json:"notes,omitempty"`

	Measures   []MeasureTargetForm `json:"measures,omitempty"`
	Alignments []AlignmentForm     `json:"alignments,omitempty"`
	TermID     *uuid.UUID          `json:"term_id,omitempty"`
}

// validateExpectationForm is phase 1: pure business-rule checks, before any
// database access.
func validateExpectationForm(form *ExpectationForm) error {
	if strings.TrimSpace(form.Title) == "" {
		return apperr.Required("title")
	}
	seen := map[string]bool{}
	for i, m := range form.Measures {
		if strings.TrimSpace(m.Unit) == "" {
			return apperr.Required(fmt.Sprintf("measures[%d].unit", i))
		}
		if strings.TrimSpace(m.MeasureType) == "" {
			return apperr.Required(fmt.Sprintf("measures[%d].measure_type", i))
		}
		if m.Target < 0 {
			return apperr.OutOfRange(fmt.Sprintf("measures[%d].target", i), "target must not be negative")
		}
		key := strings.ToLower(strings.TrimSpace(m.Unit)) + "\x00" + strings.ToLower(strings.TrimSpace(m.MeasureType))
		if seen[key] {
			return apperr.OutOfRange(fmt.Sprintf("measures[%d]", i), "duplicate measure reference")
		}
		seen[key] = true
	}
	seenValues := map[uuid.UUID]bool{}
	for i, a := range form.Alignments {
		if a.ValueID == uuid.Nil {
			return apperr.Required(fmt.Sprintf("alignments[%d].value_id", i))
		}
		if a.Weight < 0 || a.Weight > 1 {
			return apperr.OutOfRange(fmt.Sprintf("alignments[%d].weight", i), "weight must be between 0 and 1")
		}
		if seenValues[a.ValueID] {
			return apperr.OutOfRange(fmt.Sprintf("alignments[%d]", i), "duplicate value reference")
		}
		seenValues[a.ValueID] = true
	}
	return nil
}

// resolvedMeasure is the transient output of pre-transaction resolution: a
// guaranteed-existing measure id with its target and display unit.
type resolvedMeasure struct {
	MeasureID uuid.UUID
	Unit      string
	Target    float64
}

func buildMeasureRows(expectationID uuid.UUID, resolved []resolvedMeasure, now time.Time) []*types.ExpectationMeasure {
	rows := make([]*types.ExpectationMeasure, 0, len(resolved))
	for _, rm := range resolved {
		rows = append(rows, &types.ExpectationMeasure{
			ID:            uuid.New(),
			ExpectationID: expectationID,
			MeasureID:     rm.MeasureID,
			TargetValue:   rm.Target,
			CreatedAt:     now,
		})
	}
	return rows
}

func buildAlignmentRows(expectationID uuid.UUID, forms []AlignmentForm, now time.Time) []*types.ValueAlignment {
	rows := make([]*types.ValueAlignment, 0, len(forms))
	for _, a := range forms {
		rows = append(rows, &types.ValueAlignment{
			ID:            uuid.New(),
			ExpectationID: expectationID,
			ValueID:       a.ValueID,
			Weight:        a.Weight,
			CreatedAt:     now,
		})
	}
	return rows
}

// mapCoordinatorErr keeps ValidationErrors intact and translates raw storage
// failures coming out of a rolled-back transaction.
func mapCoordinatorErr(err error) error {
	if err == nil {
		return nil
	}
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	if errors.Is(err, pkgerrors.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return apperr.MapStorageError(err)
}
