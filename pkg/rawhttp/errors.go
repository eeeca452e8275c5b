package rawhttp

import (
	"errors"
	"fmt"
)

// Error types for different failure scenarios
var (
	ErrInvalidTarget    = errors.New("invalid target URL")
	ErrNotConnected     = errors.New("not connected")
	ErrConnection       = errors.New("connection failed")
	ErrTLSHandshake     = errors.New("TLS handshake failed")
	ErrProxyConnection  = errors.New("proxy connection failed")
	ErrTransport        = errors.New("transport error")
	ErrConnectionClosed = errors.New("connection closed")
)

// ErrorType represents different error categories
type ErrorType int

const (
	ErrorTypeInvalidTarget ErrorType = iota
	ErrorTypeNotConnected
	ErrorTypeConnection
	ErrorTypeTLS
	ErrorTypeProxy
	ErrorTypeTransport
	ErrorTypeClosed
)

// HTTPError represents a detailed connection-level error with categorization
type HTTPError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the same category
func (e *HTTPError) Is(target error) bool {
	switch e.Type {
	case ErrorTypeInvalidTarget:
		return target == ErrInvalidTarget
	case ErrorTypeNotConnected:
		return target == ErrNotConnected
	case ErrorTypeConnection:
		return target == ErrConnection
	case ErrorTypeTLS:
		return target == ErrTLSHandshake
	case ErrorTypeProxy:
		return target == ErrProxyConnection
	case ErrorTypeTransport:
		return target == ErrTransport
	case ErrorTypeClosed:
		return target == ErrConnectionClosed
	}
	return false
}

// NewInvalidTargetError creates an error for an unusable target URL
func NewInvalidTargetError(err error) *HTTPError {
	return &HTTPError{
		Type:    ErrorTypeInvalidTarget,
		Message: "invalid target URL",
		Err:     err,
	}
}

// NewNotConnectedError creates an error for operations that need an open connection
func NewNotConnectedError() *HTTPError {
	return &HTTPError{
		Type:    ErrorTypeNotConnected,
		Message: "must be connected to send request",
	}
}

// NewConnectionError creates a connection error
func NewConnectionError(err error) *HTTPError {
	return &HTTPError{
		Type:    ErrorTypeConnection,
		Message: "connection failed",
		Err:     err,
	}
}

// NewTLSError creates a TLS handshake error
func NewTLSError(err error) *HTTPError {
	return &HTTPError{
		Type:    ErrorTypeTLS,
		Message: "TLS handshake failed",
		Err:     err,
	}
}

// NewProxyError creates a proxy connection error
func NewProxyError(err error) *HTTPError {
	return &HTTPError{
		Type:    ErrorTypeProxy,
		Message: "proxy connection failed",
		Err:     err,
	}
}

// NewTransportError creates an error for a failure on an established stream
func NewTransportError(err error) *HTTPError {
	return &HTTPError{
		Type:    ErrorTypeTransport,
		Message: "transport error",
		Err:     err,
	}
}

// NewClosedError creates an error for a stream that ended before the response did
func NewClosedError(err error) *HTTPError {
	return &HTTPError{
		Type:    ErrorTypeClosed,
		Message: "connection closed before response completed",
		Err:     err,
	}
}
