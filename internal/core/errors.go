package core

import (
	"errors"
	"strings"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrEmptyTitle     = errors.New("empty title")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidPercent = errors.New("percentage must be between 0 and 100")
)

// ValidationError collects every rule a record broke.
type ValidationError struct {
	Record string
	Errors []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return "invalid " + e.Record + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error { return e.Errors }

func (e *ValidationError) add(err error) {
	e.Errors = append(e.Errors, err)
}

func (e *ValidationError) orNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
