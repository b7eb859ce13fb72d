package pipeline

import (
	"context"
	"errors"
	"fmt"

	dErrors "civreg/pkg/domain-errors"
	"civreg/pkg/platform/sentinel"
)

// StageError names the stage whose collaborator failed. The run stops at the
// first StageError.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Code classifies the failure for transports.
func (e *StageError) Code() dErrors.Code {
	switch {
	case errors.Is(e.Err, context.DeadlineExceeded):
		return dErrors.CodeTimeout
	case errors.Is(e.Err, context.Canceled), errors.Is(e.Err, sentinel.ErrUnavailable):
		return dErrors.CodeUnavailable
	}
	var de *dErrors.Error
	if errors.As(e.Err, &de) {
		return de.Code
	}
	return dErrors.CodeInternal
}

// AsDomainError converts a run failure into a coded error. Errors that are
// not StageErrors pass through unchanged.
func AsDomainError(err error) error {
	var se *StageError
	if !errors.As(err, &se) {
		return err
	}
	return dErrors.Wrap(err, se.Code(), "registration failed at "+se.Stage)
}
