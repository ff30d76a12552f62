package store

import (
	"errors"

	"github.com/dvolkov/dvchat/internal/apperr"
)

// ErrChatNotFound is returned when an operation names a chat that does
// not exist in the registry.
var ErrChatNotFound = errors.New("chat not found")

// ValidationError is re-exported so store callers don't need a second
// import for the common failure mode.
type ValidationError = apperr.ValidationError

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	return apperr.IsValidation(err)
}
