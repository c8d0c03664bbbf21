package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeAuth represents credential/authorization errors
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeIndex represents vector index transport errors
	ErrorTypeIndex ErrorType = "index"
	// ErrorTypeRelay represents upstream relay errors (chat, GitHub)
	ErrorTypeRelay ErrorType = "relay"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Category returns the error's type; promoted to every error that embeds
// BaseError, which is what IsErrorType keys on
func (e *BaseError) Category() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Auth errors

// ErrUnauthorized is returned when the caller's bearer token is missing
// or does not match the configured secret
var ErrUnauthorized = NewBaseError(ErrorTypeAuth, "invalid or missing API key", nil)

// Index errors

// ErrIndexUnavailable is returned when the vector index cannot be reached
// while enumerating stored files
type ErrIndexUnavailable struct {
	*BaseError
	Collection string
}

func NewIndexUnavailable(collection string, err error) *ErrIndexUnavailable {
	return &ErrIndexUnavailable{
		BaseError:  NewBaseError(ErrorTypeIndex, fmt.Sprintf("vector index unavailable: %s", collection), err),
		Collection: collection,
	}
}

// ErrVectorQueryFailed is returned when a nearest-neighbor query fails
// at the transport level
type ErrVectorQueryFailed struct {
	*BaseError
	Filename string
}

func NewVectorQueryFailed(filename string, err error) *ErrVectorQueryFailed {
	return &ErrVectorQueryFailed{
		BaseError: NewBaseError(ErrorTypeIndex, fmt.Sprintf("neighbor query failed: %s", filename), err),
		Filename:  filename,
	}
}

// ErrUpstreamFailure is returned by the graph service when a collaborator
// fails mid-call; Stage names the failing component
type ErrUpstreamFailure struct {
	*BaseError
	Stage string
}

func NewUpstreamFailure(stage string, err error) *ErrUpstreamFailure {
	return &ErrUpstreamFailure{
		BaseError: NewBaseError(ErrorTypeIndex, fmt.Sprintf("upstream failure in %s", stage), err),
		Stage:     stage,
	}
}

// Relay errors

// ErrRelayFailed is returned when a relay upstream (chat forwarder,
// GitHub API) cannot be reached or rejects the request
type ErrRelayFailed struct {
	*BaseError
	Upstream string
}

func NewRelayFailed(upstream string, err error) *ErrRelayFailed {
	return &ErrRelayFailed{
		BaseError: NewBaseError(ErrorTypeRelay, fmt.Sprintf("relay to %s failed", upstream), err),
		Upstream:  upstream,
	}
}

// ErrRelayNotConfigured is returned when a relay endpoint is hit but its
// upstream credentials were never supplied
type ErrRelayNotConfigured struct {
	*BaseError
	Upstream string
}

func NewRelayNotConfigured(upstream string) *ErrRelayNotConfigured {
	return &ErrRelayNotConfigured{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("relay %s is not configured", upstream), nil),
		Upstream:  upstream,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	if categorized, ok := err.(interface{ Category() ErrorType }); ok {
		return categorized.Category() == errType
	}
	// Check wrapped errors
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		if inner := wrapped.Unwrap(); inner != nil {
			return IsErrorType(inner, errType)
		}
	}
	return false
}

// IsIndexError reports whether err originated in the vector index layer,
// which maps to a 502 at the HTTP boundary
func IsIndexError(err error) bool {
	return IsErrorType(err, ErrorTypeIndex)
}
