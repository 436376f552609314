package record

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("record not found")
	ErrUniqueViolation      = errors.New("unique constraint violation")
	ErrUnsupportedStatement = errors.New("unsupported statement")
	ErrUnsupportedPredicate = errors.New("unsupported predicate")
	ErrUpdateRequiresID     = errors.New("UPDATE requires WHERE id = $n")
	ErrDeleteRequiresID     = errors.New("DELETE requires WHERE id = $n")
	ErrMissingParameter     = errors.New("missing query parameter")
	ErrInvalidIdentifier    = errors.New("invalid identifier")
	ErrEmptyUpdate          = errors.New("nothing to update")
)

// ConstraintError reports a primary-key or unique-index collision.
type ConstraintError struct {
	Table      string
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s: duplicate key violates %s", e.Table, e.Constraint)
	}
	return fmt.Sprintf("%s: duplicate key", e.Table)
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrUniqueViolation
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}
