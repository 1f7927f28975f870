package domain

import (
	"github.com/lodestone-app/lodestone-backend/internal/domain/catalog"
	"github.com/lodestone-app/lodestone-backend/internal/domain/dedup"
	"github.com/lodestone-app/lodestone-backend/internal/domain/planning"
)

// Catalog
type Measure = catalog.Measure
type Value = catalog.Value
type Term = catalog.Term

// Planning
type Expectation = planning.Expectation
type Goal = planning.Goal
type Action = planning.Action
type ExpectationMeasure = planning.ExpectationMeasure
type ValueAlignment = planning.ValueAlignment
type TermAssignment = planning.TermAssignment

const (
	ExpectationKindGoal   = planning.ExpectationKindGoal
	ExpectationKindAction = planning.ExpectationKindAction
)

// Dedup
type EmbeddingRecord = dedup.EmbeddingRecord
type EntitySignature = dedup.EntitySignature
type DuplicateCandidate = dedup.DuplicateCandidate
type Variant = dedup.Variant

const (
	VariantTitleOnly   = dedup.VariantTitleOnly
	VariantFullContext = dedup.VariantFullContext

	CandidateStatusPending  = dedup.CandidateStatusPending
	CandidateStatusMerged   = dedup.CandidateStatusMerged
	CandidateStatusIgnored  = dedup.CandidateStatusIgnored
	CandidateStatusResolved = dedup.CandidateStatusResolved

	ResolutionMergedInto1 = dedup.ResolutionMergedInto1
	ResolutionMergedInto2 = dedup.ResolutionMergedInto2
	ResolutionKeptBoth    = dedup.ResolutionKeptBoth
	ResolutionDeleted1    = dedup.ResolutionDeleted1
	ResolutionDeleted2    = dedup.ResolutionDeleted2

	SeverityExact    = dedup.SeverityExact
	SeverityHigh     = dedup.SeverityHigh
	SeverityModerate = dedup.SeverityModerate
	SeverityLow      = dedup.SeverityLow
)

// OrderPair returns a candidate pair in storage order.
var OrderPair = dedup.OrderPair
