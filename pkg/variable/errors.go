package variable

import (
	"errors"
	"fmt"
)

// ErrNoCandidates is returned when a resolver has nothing to evaluate.
var ErrNoCandidates = errors.New("no candidates to resolve")

// MandatoryMissingError is returned when a mandatory variable could not be
// looked up. Err is the underlying *source.LookupError.
type MandatoryMissingError struct {
	Variable string
	Err      error
}

func (e *MandatoryMissingError) Error() string {
	return fmt.Sprintf("mandatory variable %s is missing: %v", e.Variable, e.Err)
}

func (e *MandatoryMissingError) Unwrap() error { return e.Err }

// CoercionError is returned when a strict variable's raw value could not be
// converted to its target type.
type CoercionError struct {
	Variable string
	Raw      any
	Target   string
	Err      error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("variable %s: cannot convert %q to %s: %v", e.Variable, fmt.Sprint(e.Raw), e.Target, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }
