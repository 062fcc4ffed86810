package entity

import (
	"context"
	"errors"
	"fmt"
)

// ErrRateLimited signals the provider rejected a call for quota reasons.
// Retryable with backoff.
var ErrRateLimited = errors.New("provider rate limited")

// ErrNotAvailable signals that no tier produced data for an identity.
// Resolvers absorb it into a fallback value; it never reaches callers.
var ErrNotAvailable = errors.New("data not available")

// InvalidAddressError is the only resolver failure surfaced to callers as a
// hard error.
type InvalidAddressError struct {
	Address string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid wallet address %q", e.Address)
}

// ParseError marks a single malformed provider record. Batch operations skip
// the affected record and continue.
type ParseError struct {
	Record string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed provider record %s: %v", e.Record, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TransientError wraps a failure worth retrying (network hiccup, 5xx, timeout).
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient provider error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsRetryable reports whether the resilience layer may retry the call.
// Deadline overruns count as transient.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var transient *TransientError
	return errors.Is(err, ErrRateLimited) ||
		errors.As(err, &transient) ||
		errors.Is(err, context.DeadlineExceeded)
}
