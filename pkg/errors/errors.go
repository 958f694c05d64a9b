package errors

import (
	"errors"
	"fmt"
)

// Error codes exposed to API consumers.
const (
	CodeTokenExpired  = "TOKEN_EXPIRED"
	CodeNotConfigured = "NOT_CONFIGURED"
	CodeUpstream      = "UPSTREAM_FAILURE"
)

// Common errors
var (
	ErrNotConfigured = errors.New("not configured")
	ErrTokenExpired  = errors.New("access token expired")
	ErrUpstream      = errors.New("upstream request failed")
	ErrRateLimited   = errors.New("too many requests")
)

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetMessage returns the message of the outermost *Error, or err.Error()
// when the chain carries none.
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

func IsTokenExpired(err error) bool {
	return errors.Is(err, ErrTokenExpired)
}

func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}
