package repos

import (
	"gorm.io/gorm"

	"github.com/lodestone-app/lodestone-backend/internal/data/repos/catalog"
	"github.com/lodestone-app/lodestone-backend/internal/data/repos/dedup"
	"github.com/lodestone-app/lodestone-backend/internal/data/repos/planning"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

type MeasureRepo = catalog.MeasureRepo
type ValueRepo = catalog.ValueRepo
type TermRepo = catalog.TermRepo

type ExpectationRepo = planning.ExpectationRepo
type GoalRepo = planning.GoalRepo
type ActionRepo = planning.ActionRepo
type ExpectationMeasureRepo = planning.ExpectationMeasureRepo
type ValueAlignmentRepo = planning.ValueAlignmentRepo
type TermAssignmentRepo = planning.TermAssignmentRepo

type EmbeddingRecordRepo = dedup.EmbeddingRecordRepo
type EntitySignatureRepo = dedup.EntitySignatureRepo
type DuplicateCandidateRepo = dedup.DuplicateCandidateRepo

func NewMeasureRepo(db *gorm.DB, baseLog *logger.Logger) MeasureRepo {
	return catalog.NewMeasureRepo(db, baseLog)
}
func NewValueRepo(db *gorm.DB, baseLog *logger.Logger) ValueRepo {
	return catalog.NewValueRepo(db, baseLog)
}
func NewTermRepo(db *gorm.DB, baseLog *logger.Logger) TermRepo {
	return catalog.NewTermRepo(db, baseLog)
}

func NewExpectationRepo(db *gorm.DB, baseLog *logger.Logger) ExpectationRepo {
	return planning.NewExpectationRepo(db, baseLog)
}
func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo {
	return planning.NewGoalRepo(db, baseLog)
}
func NewActionRepo(db *gorm.DB, baseLog *logger.Logger) ActionRepo {
	return planning.NewActionRepo(db, baseLog)
}
func NewExpectationMeasureRepo(db *gorm.DB, baseLog *logger.Logger) ExpectationMeasureRepo {
	return planning.NewExpectationMeasureRepo(db, baseLog)
}
func NewValueAlignmentRepo(db *gorm.DB, baseLog *logger.Logger) ValueAlignmentRepo {
	return planning.NewValueAlignmentRepo(db, baseLog)
}
func NewTermAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) TermAssignmentRepo {
	return planning.NewTermAssignmentRepo(db, baseLog)
}

func NewEmbeddingRecordRepo(db *gorm.DB, baseLog *logger.Logger) EmbeddingRecordRepo {
	return dedup.NewEmbeddingRecordRepo(db, baseLog)
}
func NewEntitySignatureRepo(db *gorm.DB, baseLog *logger.Logger) EntitySignatureRepo {
	return dedup.NewEntitySignatureRepo(db, baseLog)
}
func NewDuplicateCandidateRepo(db *gorm.DB, baseLog *logger.Logger) DuplicateCandidateRepo {
	return dedup.NewDuplicateCandidateRepo(db, baseLog)
}
