package auth

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is returned when a second-factor verification
// is attempted with no pending temp token, e.g. after the flow was
// interrupted and the transient slot wiped.
var ErrMissingCredential = errors.New("no pending two-factor credential")

// ValidationError is a client-side input failure. It is raised before
// any network call and never reaches the server.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
