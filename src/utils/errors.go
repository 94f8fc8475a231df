package utils

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// ActionError carries a message that is safe to show to the user. Kind is
// one of the sentinels above.
type ActionError struct {
	Kind    error
	Message string
}

func (e *ActionError) Error() string {
	return e.Message
}

func (e *ActionError) Unwrap() error {
	return e.Kind
}

func newActionError(kind error, format string, args ...any) error {
	return &ActionError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// notFoundOr maps gorm's missing-row error to ErrNotFound and wraps anything else.
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newActionError(ErrNotFound, "%s not found", what)
	}
	return fmt.Errorf("error retrieving %s: %w", what, err)
}
