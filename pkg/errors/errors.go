package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the kind of failure raised while assembling or reading a response
type ErrorType int

const (
	ErrorTypeAlreadyFinished ErrorType = iota
	ErrorTypeBodyUnavailable
	ErrorTypeMalformedResponse
	ErrorTypeUnsupportedEncoding
	ErrorTypeCompressionError
)

// Sentinels matched by errors.Is against any *Error of the same type
var (
	ErrAlreadyFinished     = errors.New("response already finished")
	ErrBodyUnavailable     = errors.New("response body unavailable")
	ErrMalformedResponse   = errors.New("malformed response")
	ErrUnsupportedEncoding = errors.New("unsupported text encoding")
	ErrCompression         = errors.New("compression error")
)

// Error represents a structured response-level error
type Error struct {
	Type    ErrorType
	Message string
	Context string
	Raw     []byte
}

func (e *Error) Error() string {
	if e.Context == "" {
		return "sockhttp: " + e.Message
	}
	return fmt.Sprintf("sockhttp: %s (context: %s)", e.Message, e.Context)
}

// Is reports whether target is the sentinel for this error's type
func (e *Error) Is(target error) bool {
	return target == sentinel(e.Type)
}

func sentinel(t ErrorType) error {
	switch t {
	case ErrorTypeAlreadyFinished:
		return ErrAlreadyFinished
	case ErrorTypeBodyUnavailable:
		return ErrBodyUnavailable
	case ErrorTypeMalformedResponse:
		return ErrMalformedResponse
	case ErrorTypeUnsupportedEncoding:
		return ErrUnsupportedEncoding
	case ErrorTypeCompressionError:
		return ErrCompression
	default:
		return nil
	}
}

// NewError creates a new Error
func NewError(errType ErrorType, message, context string, raw []byte) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Context: context,
		Raw:     raw,
	}
}

// IsResponseError checks if an error is a response-level error
func IsResponseError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
