package apierrors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is a client-side rejection: the action was blocked before
// any network call was made. Local state is untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidation creates a ValidationError for a single field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// RequestError is a network or backend failure (transport error or non-2xx).
// Local state is unchanged and the same action is safe to retry as-is.
type RequestError struct {
	StatusCode int    // 0 when the request never reached the backend
	Message    string // backend-supplied message when available
	Err        error  // underlying transport error, if any
}

func (e *RequestError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("request failed: %v", e.Err)
	default:
		return fmt.Sprintf("request failed (%d)", e.StatusCode)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a client-side validation rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRequestFailed reports whether err is a network/backend failure.
func IsRequestFailed(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

// IsStaleRead classifies a backend rejection caused by a balance or price
// that changed between the local validation read and the submit. The action
// must not be silently retried with a different amount; the caller re-fetches
// and lets the user decide.
func IsStaleRead(err error) bool {
	var re *RequestError
	if !errors.As(err, &re) {
		return false
	}
	if re.StatusCode != 400 && re.StatusCode != 409 {
		return false
	}
	msg := strings.ToLower(re.Message)
	return strings.Contains(msg, "insufficient") ||
		strings.Contains(msg, "balance") ||
		strings.Contains(msg, "exceeds")
}
