package contact

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when an update names a field the form does not have
	ErrUnknownField = errors.New("contact: unknown field")

	// ErrFormLocked is returned when a field is edited while a submission is in flight
	ErrFormLocked = errors.New("contact: form is locked while submitting")

	// ErrSubmissionInFlight is returned when Submit is called while already submitting
	ErrSubmissionInFlight = errors.New("contact: submission already in flight")

	// ErrInvalidForm matches every *ValidationError
	ErrInvalidForm = errors.New("contact: form has invalid fields")
)

// ValidationError carries the field errors of a rejected submission.
type ValidationError struct {
	Errors ValidationErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("contact: %d invalid field(s): %v", len(e.Errors), e.Errors.Fields())
}

// Is lets errors.Is(err, ErrInvalidForm) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidForm
}
