package tank

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an aquarium, fish, or routine ID is unknown.
// Operations that return it make no state change.
var ErrNotFound = errors.New("not found")

// ErrUnknownSpecies is returned when a fish references a species that is not
// in the static catalog.
var ErrUnknownSpecies = errors.New("unknown species")

// ValidationError reports a malformed field at construction or command time.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
