package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports a caller-supplied input that failed a local
// precondition. It never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NetworkError means no response was received at all (connectivity, DNS,
// timeout). Eligible for the standard retry policy.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a response with a non-2xx status, classified by status code.
type HTTPError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d", e.Status)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func statusIs(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == status
}

func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }
func IsForbidden(err error) bool    { return statusIs(err, http.StatusForbidden) }
func IsNotFound(err error) bool     { return statusIs(err, http.StatusNotFound) }
func IsConflict(err error) bool     { return statusIs(err, http.StatusConflict) }
func IsRateLimited(err error) bool  { return statusIs(err, http.StatusTooManyRequests) }

// IsServerError reports whether err is a classified 5xx response.
func IsServerError(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status >= 500
}

// IsRecoverable reports whether the caller may keep its last-known-good
// state and offer a retry: connectivity loss, server failure, throttling.
func IsRecoverable(err error) bool {
	return IsNetwork(err) || IsServerError(err) || IsRateLimited(err)
}
