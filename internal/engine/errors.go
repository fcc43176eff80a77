package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrScoreOutOfRange marks a sub-score outside the normalized [0,1] range.
	ErrScoreOutOfRange = errors.New("sub-score outside [0,1] range")

	// ErrWeightConfiguration marks scoring weights that do not sum to 1.0.
	ErrWeightConfiguration = errors.New("scoring weights must sum to 1.0")

	// ErrAllocationInput marks a negative water budget or requirement.
	ErrAllocationInput = errors.New("invalid allocation input")
)

// FieldValidationError reports which field and attribute failed validation so
// callers can exclude that single field and surface the reason instead of
// aborting the whole cycle.
type FieldValidationError struct {
	FieldID   string
	Attribute string
	Value     float64
	Err       error
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("field %s: %s=%g: %v", e.FieldID, e.Attribute, e.Value, e.Err)
}

func (e *FieldValidationError) Unwrap() error { return e.Err }
