package models

import (
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrTeaNotFound is returned when a tea is not found.
	ErrTeaNotFound = errors.New("tea not found")
	// ErrDuplicateKey is returned when a write breaks a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrReferenceViolation is returned when a write breaks a foreign key constraint.
	ErrReferenceViolation = errors.New("reference violation")
)

// postgres SQLSTATE codes
const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

// translateError maps driver constraint errors onto the package sentinels.
// Anything it does not recognise is returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Join(ErrDuplicateKey, err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errors.Join(ErrReferenceViolation, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return errors.Join(ErrDuplicateKey, err)
		case pqForeignKeyViolation:
			return errors.Join(ErrReferenceViolation, err)
		}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return errors.Join(ErrDuplicateKey, err)
		// RESTRICT actions are enforced by sqlite as triggers and report
		// SQLITE_CONSTRAINT_TRIGGER rather than SQLITE_CONSTRAINT_FOREIGNKEY.
		case sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintTrigger:
			return errors.Join(ErrReferenceViolation, err)
		}
	}

	return err
}
