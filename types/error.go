package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across swarmdfs.
type ErrorCode string

// Traversal error codes
const (
	ErrExecutionFailed   ErrorCode = "EXECUTION_FAILED"
	ErrNoWorkerAvailable ErrorCode = "NO_WORKER_AVAILABLE"
	ErrEmptyPool         ErrorCode = "EMPTY_POOL"
	ErrWorkerPanic       ErrorCode = "WORKER_PANIC"
	ErrRunCancelled      ErrorCode = "RUN_CANCELLED"
)

// Infrastructure error codes
const (
	ErrInvalidConfig    ErrorCode = "INVALID_CONFIG"
	ErrInvalidPlaybook  ErrorCode = "INVALID_PLAYBOOK"
	ErrStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	ErrRunNotFound      ErrorCode = "RUN_NOT_FOUND"
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	Worker    string    `json:"worker,omitempty"`
	Cause     error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithWorker sets the worker name.
func (e *Error) WithWorker(worker string) *Error {
	e.Worker = worker
	return e
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if e, ok := AsError(err); ok {
		return e.Retryable
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// WrapError wraps err with a code and message. A nil err yields nil.
func WrapError(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return NewError(code, message).WithCause(err)
}
