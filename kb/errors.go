package kb

import (
	"errors"
	"fmt"
)

// ErrSchemaViolation groups the schema error conditions so callers can
// test with errors.Is without caring which specific rule was broken.
var ErrSchemaViolation = errors.New("schema violation")

// UnknownPredicateError reports a reference to a predicate that was
// never registered.
type UnknownPredicateError struct {
	Predicate string
}

func (e *UnknownPredicateError) Error() string {
	return fmt.Sprintf("unknown predicate: %s", e.Predicate)
}

func (e *UnknownPredicateError) Is(target error) bool {
	return target == ErrSchemaViolation
}

// ArityMismatchError reports a predicate used with the wrong number of
// arguments.
type ArityMismatchError struct {
	Predicate string
	Want      int
	Got       int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("arity mismatch: %s expects %d arguments, got %d",
		e.Predicate, e.Want, e.Got)
}

func (e *ArityMismatchError) Is(target error) bool {
	return target == ErrSchemaViolation
}

// SchemaConflictError reports contradictory arity declarations for the
// same predicate name. This is fatal at registry build time: the fact
// base must not be constructed over an ambiguous schema.
type SchemaConflictError struct {
	Predicate string
	Existing  int
	Proposed  int
}

func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf("schema conflict: %s already registered with arity %d, cannot re-register with arity %d",
		e.Predicate, e.Existing, e.Proposed)
}

func (e *SchemaConflictError) Is(target error) bool {
	return target == ErrSchemaViolation
}
