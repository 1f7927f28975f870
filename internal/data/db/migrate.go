package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/lodestone-app/lodestone-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Shared catalog
		// =========================
		&types.Measure{},
		&types.Value{},
		&types.Term{},

		// =========================
		// Planning entity graph
		// =========================
		&types.Expectation{},
		&types.Goal{},
		&types.Action{},
		&types.ExpectationMeasure{},
		&types.ValueAlignment{},
		&types.TermAssignment{},

		// =========================
		// Deduplication engine
		// =========================
		&types.EmbeddingRecord{},
		&types.EntitySignature{},
		&types.DuplicateCandidate{},
	)
}

// EnsureIndexes creates the expression and partial indexes GORM tags cannot
// express. Safe to re-run.
func EnsureIndexes(db *gorm.DB) error {
	// Case-insensitive measure identity. This is what guarantees two
	// concurrent resolver calls cannot both create a row for the same
	// logical (unit, measure_type) pair.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_measure_unit_type_ci
		ON measure(lower(unit), lower(measure_type));
	`).Error; err != nil {
		return fmt.Errorf("create idx_measure_unit_type_ci: %w", err)
	}
	// One pending candidate per unordered pair. Closed candidates are kept
	// as history, so the uniqueness is partial on status.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_duplicate_candidate_pending_pair
		ON duplicate_candidate(entity_type, entity1_id, entity2_id)
		WHERE status = 'pending';
	`).Error; err != nil {
		return fmt.Errorf("create idx_duplicate_candidate_pending_pair: %w", err)
	}
	return nil
}
