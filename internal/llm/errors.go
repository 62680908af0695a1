package llm

import (
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindProvider  ErrorKind = "provider"
	KindEmpty     ErrorKind = "empty"
	KindMalformed ErrorKind = "malformed"
	KindSchema    ErrorKind = "schema"
)

// CompletionError is returned for every failure downstream of the gateway.
// Status is the provider's HTTP status when one was received.
type CompletionError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *CompletionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("completion %s error (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("completion %s error: %v", e.Kind, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// StatusError maps a non-2xx provider status onto the package sentinels.
func StatusError(statusCode int, cause error) *CompletionError {
	var err error
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		err = fmt.Errorf("%w: %v", ErrAuthFailed, cause)
	case http.StatusTooManyRequests:
		err = fmt.Errorf("%w: %v", ErrRateLimit, cause)
	default:
		err = fmt.Errorf("%w: %v", ErrRequestFailed, cause)
	}
	return &CompletionError{Kind: KindProvider, Status: statusCode, Err: err}
}
