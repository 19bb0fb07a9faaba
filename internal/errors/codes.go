package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type for assistant operations.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates authentication failure.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeNotFound indicates the referenced entity does not exist or is not
	// visible to the caller.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInternal indicates an unexpected failure inside the dispatcher.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeServiceUnavailable indicates the service is not available.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeLLMUnavailable indicates the model backend is not available.
	ErrCodeLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	// ErrCodeContextCanceled indicates the operation was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
)

// AssistantError is a structured error carrying a stable code that handlers
// map to HTTP statuses and tool results.
type AssistantError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AssistantError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AssistantError) Unwrap() error {
	return e.Cause
}

// Convenience constructors for common error types.

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *AssistantError {
	return &AssistantError{Code: ErrCodeUnauthorized, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *AssistantError {
	return &AssistantError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *AssistantError {
	return &AssistantError{Code: ErrCodeInvalidArgument, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *AssistantError {
	return &AssistantError{Code: ErrCodeNotFound, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string, cause error) *AssistantError {
	return &AssistantError{Code: ErrCodeInternal, Message: msg, Cause: cause}
}

// ServiceUnavailable creates a service unavailable error.
func ServiceUnavailable(msg string) *AssistantError {
	return &AssistantError{Code: ErrCodeServiceUnavailable, Message: msg}
}

// LLMUnavailable creates an LLM unavailable error.
func LLMUnavailable(msg string, cause error) *AssistantError {
	return &AssistantError{Code: ErrCodeLLMUnavailable, Message: msg, Cause: cause}
}

// ContextCanceled creates a context canceled error.
func ContextCanceled(cause error) *AssistantError {
	return &AssistantError{Code: ErrCodeContextCanceled, Message: "operation canceled", Cause: cause}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code ErrorCode, msg string) *AssistantError {
	return &AssistantError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if aerr, ok := err.(*AssistantError); ok {
		return aerr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not an AssistantError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if aerr, ok := err.(*AssistantError); ok {
		return aerr.Code
	}
	return defaultCode
}
