package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a generation-service failure.
type ErrorKind string

const (
	KindAuth      ErrorKind = "auth"
	KindNetwork   ErrorKind = "network"
	KindRateLimit ErrorKind = "rate_limit"
	KindOther     ErrorKind = "other"
)

// ServiceError is returned by every Provider on failure.
type ServiceError struct {
	Kind ErrorKind
	Err  error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation service %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("generation service %s error", e.Kind)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// ErrDisabled is wrapped by the offline provider.
var ErrDisabled = errors.New("generation service disabled")

// KindOf returns the ErrorKind of err, or "" when err is not a *ServiceError.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// kindForStatus maps an HTTP status code returned by a provider API to an
// ErrorKind.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status >= 500:
		return KindNetwork
	default:
		return KindOther
	}
}

// wrapTransport classifies an error that did not come back as an API error.
// Timeouts, cancellations and dial failures all surface as network errors.
func wrapTransport(err error) *ServiceError {
	return &ServiceError{Kind: KindNetwork, Err: err}
}
