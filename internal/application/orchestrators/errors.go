package orchestrators

import (
	"errors"

	"jrotc/internal/domain/cadet"
)

// ValidationError carries client-visible input problems.
// Problems is set when the failure came from the cadet field validator.
type ValidationError struct {
	Message  string
	Problems cadet.Problems
}

// Error implements the error interface.
// POST: returns Message, or the first problem's message when Message is empty
func (e *ValidationError) Error() string {
	if e.Message == "" && len(e.Problems) > 0 {
		return e.Problems[0].Message
	}
	return e.Message
}

// invalid wraps a domain error so handlers report it as a 400.
func invalid(err error) error {
	return &ValidationError{Message: err.Error()}
}

// Orchestrator-level errors shared by several operations.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("not permitted")
)
