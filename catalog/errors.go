package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lotustea/tea-catalog/models"
)

var (
	// ErrNotFound is returned when an entity id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable wraps every failure of the underlying record store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// FieldError is a single violated form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violated field of a submitted form.
// Categories carries the category list needed to re-render a tea form.
type ValidationError struct {
	Fields     []FieldError
	Categories []models.Category
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether field is among the violations.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// ConflictError is returned when a category delete is blocked by teas
// still referencing it.
type ConflictError struct {
	Category models.Category
	Teas     []models.Tea
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("category %q is referenced by %d tea(s)", e.Category.Name, len(e.Teas))
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, ErrNotFound)
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
