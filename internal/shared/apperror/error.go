package apperror

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code       string // machine readable, e.g. IN_FLIGHT
	Message    string // safe to show to the dashboard user
	HTTPStatus int
	Err        error // wrapped cause, optional
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Code so a wrapped sentinel still satisfies errors.Is.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap attaches cause to a copy of base, keeping base's code, message and status.
func Wrap(base *AppError, cause error) *AppError {
	if base == nil {
		return nil
	}
	return &AppError{
		Code:       base.Code,
		Message:    base.Message,
		HTTPStatus: base.HTTPStatus,
		Err:        cause,
	}
}
