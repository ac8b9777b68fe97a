package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"
	ErrFileAccess     ErrorCode = "FILE_ACCESS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Definition and generation errors
	ErrParse       ErrorCode = "PARSE"
	ErrEncode      ErrorCode = "ENCODE"
	ErrColorFormat ErrorCode = "COLOR_FORMAT"
	ErrCapacity    ErrorCode = "CAPACITY"

	// Service errors
	ErrTransport       ErrorCode = "TRANSPORT"
	ErrPageExists      ErrorCode = "PAGE_EXISTS"
	ErrUnknownProperty ErrorCode = "UNKNOWN_PROPERTY"

	// Auto-switch errors
	ErrMatchRule      ErrorCode = "MATCH_RULE"
	ErrMalformedEvent ErrorCode = "MALFORMED_EVENT"

	// Repository errors
	ErrRepoInvalid ErrorCode = "REPO_INVALID"
	ErrRepoAccess  ErrorCode = "REPO_ACCESS"
)

// AutopageError represents a structured error with code and details
type AutopageError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *AutopageError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AutopageError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *AutopageError) Is(target error) bool {
	var targetErr *AutopageError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new AutopageError with the given code and message
func New(code ErrorCode, message string) *AutopageError {
	return &AutopageError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new AutopageError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AutopageError {
	return &AutopageError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an AutopageError
func Wrap(err error, code ErrorCode, message string) *AutopageError {
	if err == nil {
		return nil
	}
	return &AutopageError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AutopageError {
	if err == nil {
		return nil
	}
	return &AutopageError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *AutopageError) WithDetail(key string, value interface{}) *AutopageError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *AutopageError) WithDetails(details map[string]interface{}) *AutopageError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// Annotate attaches details to err. An AutopageError keeps its code and
// message; any other error is wrapped with code and message first. A nil
// err stays nil.
func Annotate(err error, code ErrorCode, message string, details map[string]interface{}) error {
	if err == nil {
		return nil
	}
	apErr, ok := err.(*AutopageError)
	if !ok {
		apErr = Wrap(err, code, message)
	}
	return apErr.WithDetails(details)
}

// AtPosition wraps err as a PARSE error located in a source document.
// Line and column are 1-based; zero values are left out.
func AtPosition(err error, message string, line, column int) *AutopageError {
	apErr := Wrap(err, ErrParse, message)
	if apErr == nil {
		return nil
	}
	if line > 0 {
		apErr.WithDetail("line", line)
	}
	if column > 0 {
		apErr.WithDetail("column", column)
	}
	return apErr
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var apErr *AutopageError
	if errors.As(err, &apErr) {
		return apErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an AutopageError
func GetErrorCode(err error) ErrorCode {
	var apErr *AutopageError
	if errors.As(err, &apErr) {
		return apErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an AutopageError
func GetErrorDetails(err error) map[string]interface{} {
	var apErr *AutopageError
	if errors.As(err, &apErr) {
		return apErr.Details
	}
	return nil
}
