package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrSignatureMismatch means the payment confirmation could not be
	// authenticated. Callers must not reveal anything beyond a failure flag.
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	// ErrBookingConflict means the stay overlaps an existing booking.
	ErrBookingConflict = errors.New("booking dates conflict with an existing booking")
)

// ConflictMessage is shown to guests whose dates were taken.
const ConflictMessage = "Sorry, these dates are no longer available. Please select different dates."

// ValidationError reports malformed settlement input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
