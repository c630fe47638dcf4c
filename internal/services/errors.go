package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential means the provider credential is not configured.
	// It is a server fault, never a client one.
	ErrMissingCredential = errors.New("provider credential is not configured")

	// ErrUnexpectedResponse means the provider answered successfully but the
	// generated content was not where the profile expects it
	ErrUnexpectedResponse = errors.New("unexpected response format from provider")
)

// UpstreamError represents a failed call to the provider
type UpstreamError struct {
	StatusCode int    // 0 when no response was received
	Message    string // provider's own error message, if any
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Message)
	case e.StatusCode > 0:
		return fmt.Sprintf("provider returned status %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("provider request failed: %v", e.Err)
	default:
		return "provider request failed"
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// PublicMessage is the text safe to return to the caller
func (e *UpstreamError) PublicMessage() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.StatusCode > 0:
		return fmt.Sprintf("API Error: %d", e.StatusCode)
	default:
		return "failed to reach the provider"
	}
}

// IsUpstreamError returns the UpstreamError wrapped in err, if any
func IsUpstreamError(err error) (*UpstreamError, bool) {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}
	return nil, false
}
