package apperr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Validation codes surfaced to callers. Storage constraint violations are
// mapped onto these so the caller sees one error vocabulary regardless of
// whether phase-1 validation or the database rejected the write.
const (
	CodeRequiredField       = "required_field"
	CodeOutOfRange          = "out_of_range"
	CodeDuplicate           = "duplicate"
	CodeInvalidReference    = "invalid_reference"
	CodeConstraintViolation = "constraint_violation"
	CodeInvalidState        = "invalid_state"
)

// ValidationError is the only error shape surfaced to callers in user-facing
// form. It always carries a human-readable message.
type ValidationError struct {
	Code    string
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

func Required(field string) *ValidationError {
	return &ValidationError{Code: CodeRequiredField, Field: field, Message: fmt.Sprintf("%s is required", field)}
}

func OutOfRange(field, msg string) *ValidationError {
	return &ValidationError{Code: CodeOutOfRange, Field: field, Message: msg}
}

func InvalidReference(field, msg string) *ValidationError {
	return &ValidationError{Code: CodeInvalidReference, Field: field, Message: msg}
}

func InvalidState(msg string) *ValidationError {
	return &ValidationError{Code: CodeInvalidState, Message: msg}
}

// Postgres SQLSTATE classes for constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// MapStorageError translates a storage-layer failure into a ValidationError.
// GORM's translated sentinels cover both the Postgres and SQLite drivers; a
// *pgconn.PgError, when present, contributes the offending constraint and
// column for message quality. Unmapped errors fall back to a generic
// constraint-violation variant carrying the raw message.
func MapStorageError(err error) *ValidationError {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		detail := pgErr.ConstraintName
		if detail == "" {
			detail = pgErr.ColumnName
		}
		switch pgErr.Code {
		case pgUniqueViolation:
			return &ValidationError{Code: CodeDuplicate, Field: detail, Message: "a matching record already exists", Err: err}
		case pgForeignKeyViolation:
			return &ValidationError{Code: CodeInvalidReference, Field: detail, Message: "referenced record does not exist", Err: err}
		case pgNotNullViolation:
			return &ValidationError{Code: CodeRequiredField, Field: pgErr.ColumnName, Message: "value must not be empty", Err: err}
		case pgCheckViolation:
			return &ValidationError{Code: CodeOutOfRange, Field: detail, Message: "value violates a range constraint", Err: err}
		}
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &ValidationError{Code: CodeDuplicate, Message: "a matching record already exists", Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &ValidationError{Code: CodeInvalidReference, Message: "referenced record does not exist", Err: err}
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &ValidationError{Code: CodeOutOfRange, Message: "value violates a range constraint", Err: err}
	}

	return &ValidationError{Code: CodeConstraintViolation, Message: err.Error(), Err: err}
}

// IsDuplicate reports whether err maps to a uniqueness violation. The measure
// resolver uses this to detect a concurrent first writer.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code == CodeDuplicate
	}
	return MapStorageError(err).Code == CodeDuplicate
}
