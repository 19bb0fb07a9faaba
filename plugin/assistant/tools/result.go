package tools

import (
	"github.com/daykeep/daykeep/internal/errors"
)

// Result is the uniform outcome of a tool call: either a success carrying
// data, or a failure carrying a code and message. There is no third shape.
type Result struct {
	OK      bool
	Data    any
	Code    errors.ErrorCode
	Message string
}

// Ok builds a success result.
func Ok(data any) Result {
	return Result{OK: true, Data: data}
}

// NotFound builds a not-found/not-owned failure.
func NotFound(message string) Result {
	return Result{OK: false, Code: errors.ErrCodeNotFound, Message: message}
}

// Invalid builds a validation failure.
func Invalid(message string) Result {
	return Result{OK: false, Code: errors.ErrCodeInvalidArgument, Message: message}
}

// Internal builds an infrastructure failure with a generic message. The
// underlying error is logged, never surfaced.
func Internal() Result {
	return Result{OK: false, Code: errors.ErrCodeInternal, Message: "something went wrong, please try again"}
}
