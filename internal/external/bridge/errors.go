package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable marks a bridge that is unreachable or timed out
	ErrUpstreamUnavailable = errors.New("upstream bridge unavailable")

	// ErrUpstreamData marks a bridge that answered with an error payload
	ErrUpstreamData = errors.New("upstream bridge data error")

	// ErrBondNotFound marks an unknown ISIN
	ErrBondNotFound = errors.New("bond not found")
)

// ErrorKind classifies an upstream failure
type ErrorKind string

const (
	KindUnavailable ErrorKind = "upstream_unavailable"
	KindDataError   ErrorKind = "upstream_data_error"
)

// UpstreamError is a data-acquisition failure carrying the bridge's reason verbatim
type UpstreamError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Kind == KindUnavailable {
		return fmt.Sprintf("%s: %s", ErrUpstreamUnavailable, e.Message)
	}
	return fmt.Sprintf("%s: %s", ErrUpstreamData, e.Message)
}

// Unwrap exposes the underlying transport error, if any
func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// Is matches the kind sentinels
func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrUpstreamUnavailable:
		return e.Kind == KindUnavailable
	case ErrUpstreamData:
		return e.Kind == KindDataError
	}
	return false
}

func unavailable(cause error, format string, args ...interface{}) *UpstreamError {
	return &UpstreamError{Kind: KindUnavailable, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func dataError(format string, args ...interface{}) *UpstreamError {
	return &UpstreamError{Kind: KindDataError, Message: fmt.Sprintf(format, args...)}
}
