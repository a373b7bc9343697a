// Package common holds the error vocabulary, logging setup and retry loop
// shared by the quoting pipeline.
package common

import (
	"context"
	"errors"
)

// Catalog lookups.
var ErrNotFound = errors.New("not found")

// Service extraction.
var (
	ErrNoServicesDetected   = errors.New("no services detected in itinerary")
	ErrExtractorUnavailable = errors.New("service extractor unavailable")
	ErrMalformedExtraction  = errors.New("malformed extractor response")
)

// Configuration.
var (
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError carries a message meant for the person running the command.
// The wrapped cause stays reachable through errors.Is and errors.As.
type UserError struct {
	Cause   error
	Message string
}

// NewUserError wraps cause with a message suitable for the terminal.
func NewUserError(message string, cause error) error {
	return &UserError{Message: message, Cause: cause}
}

func (e *UserError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *UserError) Unwrap() error { return e.Cause }

// IsRetryable reports whether a failed call is worth repeating. Rate limits
// and deadlines always are; otherwise a RetryableError decides.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrRateLimit), errors.Is(err, context.DeadlineExceeded):
		return true
	}
	var re *RetryableError
	return errors.As(err, &re) && re.Retryable
}
