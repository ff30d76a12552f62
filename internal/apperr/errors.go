// Package apperr defines the error kinds shared by the auth flow and
// the chat store. All of them are recoverable: the caller surfaces a
// transient notice and the user resubmits.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InvalidCredentialsError is returned by the developer login when the
// login/password pair does not match.
type InvalidCredentialsError struct{}

func (*InvalidCredentialsError) Error() string {
	return "invalid developer credentials"
}

// LockedOutError is returned after too many failed verification
// attempts. The flow resets itself after the lockout delay.
type LockedOutError struct {
	Attempts int
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("locked out after %d failed verification attempts", e.Attempts)
}
