package dataset

import (
	"errors"
	"fmt"
)

// ValidationError marks user-correctable input problems (missing columns,
// unknown station, bad upload) as opposed to processing faults. Handlers map
// it to a 400 response instead of a 500.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
