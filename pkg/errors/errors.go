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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Selector and identifier syntax errors
	ErrParse ErrorCode = "PARSE"

	// A host introspection tool exited non-zero or timed out
	ErrExternalCommand ErrorCode = "EXTERNAL_COMMAND"

	// Bad configuration or programming error: unregistered augmentation
	// field, unknown check operator, non-bijective reorder
	ErrConfiguration ErrorCode = "CONFIGURATION"

	// Internal to the cache layer, never surfaced by the classifier
	ErrCacheMiss ErrorCode = "CACHE_MISS"

	// Configuration loading errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
)

// Detail keys carried by ErrExternalCommand errors
const (
	DetailCommand  = "command"
	DetailExitCode = "exit_code"
	DetailStdout   = "stdout"
	DetailStderr   = "stderr"
)

// AstutusError represents a structured error with code and details
type AstutusError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *AstutusError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AstutusError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an AstutusError with the same code
func (e *AstutusError) Is(target error) bool {
	var targetErr *AstutusError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new AstutusError with the given code and message
func New(code ErrorCode, message string) *AstutusError {
	return &AstutusError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new AstutusError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AstutusError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error. It returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) *AstutusError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AstutusError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *AstutusError) WithDetail(key string, value interface{}) *AstutusError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// CommandFailed builds the ErrExternalCommand error for a failed tool run.
// A timed out or unstartable command reports exit code -1.
func CommandFailed(command string, exitCode int, stdout, stderr string, cause error) *AstutusError {
	e := Newf(ErrExternalCommand, "command %q exited with code %d", command, exitCode)
	e.Wrapped = cause
	return e.
		WithDetail(DetailCommand, command).
		WithDetail(DetailExitCode, exitCode).
		WithDetail(DetailStdout, stdout).
		WithDetail(DetailStderr, stderr)
}

// CommandFailure extracts the exit code and captured output from an
// ErrExternalCommand error. ok is false for any other error.
func CommandFailure(err error) (exitCode int, stdout, stderr string, ok bool) {
	for err != nil {
		var e *AstutusError
		if !errors.As(err, &e) {
			return 0, "", "", false
		}
		if e.Code == ErrExternalCommand {
			exitCode, _ = e.Details[DetailExitCode].(int)
			stdout, _ = e.Details[DetailStdout].(string)
			stderr, _ = e.Details[DetailStderr].(string)
			return exitCode, stdout, stderr, true
		}
		err = e.Wrapped
	}
	return 0, "", "", false
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var e *AstutusError
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an AstutusError
func GetErrorCode(err error) ErrorCode {
	var e *AstutusError
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an AstutusError
func GetErrorDetails(err error) map[string]interface{} {
	var e *AstutusError
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

// Is is errors.Is, re-exported so callers need a single errors import
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As, re-exported so callers need a single errors import
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
