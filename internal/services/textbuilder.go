package services

import (
	"fmt"
	"strings"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
)

// EntitySnapshot is the plain-data view of an entity passed into text
// building. No persistence or UI types cross this boundary.
type EntitySnapshot struct {
	Title   string
	Details string
	Notes   string
	// Extras carries domain-specific fields (measure targets, frequency)
	// already rendered to text, in a stable order.
	Extras []string
}

// BuildText concatenates the snapshot fields for the given variant. Field
// order is fixed (title, details, notes, extras): token order affects the
// embedding and therefore the content hash, so builders must be stable for a
// given snapshot. Normalization later strips formatting noise; content order
// stays significant on purpose.
func BuildText(v types.Variant, snap EntitySnapshot) string {
	switch v {
	case types.VariantTitleOnly:
		return strings.TrimSpace(snap.Title)
	case types.VariantFullContext:
		parts := make([]string, 0, 3+len(snap.Extras))
		for _, p := range []string{snap.Title, snap.Details, snap.Notes} {
			if s := strings.TrimSpace(p); s != "" {
				parts = append(parts, s)
			}
		}
		for _, p := range snap.Extras {
			if s := strings.TrimSpace(p); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	default:
		return ""
	}
}

// SnapshotForExpectation renders an expectation row (plus optional measure
// target lines) into a snapshot.
func SnapshotForExpectation(e *types.Expectation, measures []*types.ExpectationMeasure, units map[string]string) EntitySnapshot {
	snap := EntitySnapshot{
		Title:   e.Title,
		Details: e.Details,
		Notes:   e.Notes,
	}
	for _, m := range measures {
		unit := units[m.MeasureID.String()]
		snap.Extras = append(snap.Extras, fmt.Sprintf("target %g %s", m.TargetValue, unit))
	}
	return snap
}
