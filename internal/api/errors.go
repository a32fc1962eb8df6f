package api

import (
	"errors"
	"fmt"
)

// UnauthorizedError is returned for any 401 response. By the time the
// caller sees it the session has already been cleared and the
// configured unauthorized hook has fired exactly once.
type UnauthorizedError struct {
	Path string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Path)
}

// HTTPError is any non-2xx, non-401 response. Message carries the
// server-provided error text when the body had one.
type HTTPError struct {
	Status  int
	Body    string
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// NetworkError is a transport-level failure, including timeouts.
// No response was received, so nothing can be said about the session.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is (or wraps) a 401 failure.
func IsUnauthorized(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue)
}

// IsNetworkError reports whether err is (or wraps) a transport failure.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// ErrorMessage extracts the most user-facing message available from a
// client error, for UI-level reporting.
func ErrorMessage(err error) string {
	var he *HTTPError
	if errors.As(err, &he) && he.Message != "" {
		return he.Message
	}
	return err.Error()
}
