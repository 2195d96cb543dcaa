package errors

import (
	stderrors "errors"
	"fmt"

	"gobayes/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeDegenerateSample = "DEGENERATE_SAMPLE"
	CodeRenderingFailure = "RENDERING_FAILURE"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// InvalidParameter reports a value supplied outside its valid domain.
// The result matches core.ErrInvalidParameter under errors.Is.
func InvalidParameter(name string, value interface{}, reason string) *AppError {
	return &AppError{
		Code:    CodeInvalidParameter,
		Message: fmt.Sprintf("%s=%v %s", name, value, reason),
		Cause:   core.ErrInvalidParameter,
	}
}

// DegenerateSample reports a sample that cannot support estimation.
func DegenerateSample(message string) *AppError {
	return &AppError{
		Code:    CodeDegenerateSample,
		Message: message,
		Cause:   core.ErrDegenerateSample,
	}
}

// RenderingFailure reports a chart that could not be produced.
func RenderingFailure(chart string, cause error) *AppError {
	return &AppError{
		Code:    CodeRenderingFailure,
		Message: fmt.Sprintf("%s chart failed", chart),
		Cause:   fmt.Errorf("%w: %v", core.ErrRenderingFailure, cause),
	}
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
