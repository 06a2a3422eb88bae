package errors

import "fmt"

// ErrorCode represents a mentorcore error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrArchive        ErrorCode = "ARCHIVE_ERROR"   // 422
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrInvalidPath    ErrorCode = "INVALID_PATH"    // 400, treated as a security violation
	ErrTooLarge       ErrorCode = "TOO_LARGE"       // 413
	ErrCommandBlocked ErrorCode = "COMMAND_BLOCKED" // 403
	ErrTimedOut       ErrorCode = "TIMED_OUT"       // 408
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// Error represents a structured error with code, status, and details.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewArchive creates a 422 error for a rejected upload (corrupt archive,
// disallowed entry, or zip-slip attempt). No workspace state survives it.
func NewArchive(msg string) *Error {
	return &Error{
		Code:    ErrArchive,
		Status:  422,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing workspace or file.
func NewNotFound(identifier string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewInvalidPath creates a 400 error for a path that resolves outside its
// workspace root. Distinct from NOT_FOUND: this is a traversal attempt.
func NewInvalidPath(path string) *Error {
	return &Error{
		Code:    ErrInvalidPath,
		Status:  400,
		Message: fmt.Sprintf("path escapes workspace root: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewTooLarge creates a 413 error when a file or upload exceeds a size cap.
func NewTooLarge(what string, max, actual int64) *Error {
	return &Error{
		Code:    ErrTooLarge,
		Status:  413,
		Message: fmt.Sprintf("%s exceeds maximum size: %d bytes (max %d)", what, actual, max),
		Details: map[string]any{"max_bytes": max, "actual_bytes": actual},
	}
}

// NewCommandBlocked creates a 403 error for a denylisted command.
func NewCommandBlocked(pattern string) *Error {
	return &Error{
		Code:    ErrCommandBlocked,
		Status:  403,
		Message: fmt.Sprintf("command matches blocked pattern %q", pattern),
		Details: map[string]any{"pattern": pattern},
	}
}

// NewTimedOut creates a 408 error for a command that exceeded its wall-clock
// budget. Command execution itself reports timeouts as a result, not as this
// error; this exists for callers that need a hard failure.
func NewTimedOut(msg string) *Error {
	return &Error{
		Code:    ErrTimedOut,
		Status:  408,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is an Error with the given code.
func Is(err error, code ErrorCode) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}
