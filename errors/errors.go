package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type of the module.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError carrying the same code.
// Package-level sentinels therefore match any error built with their code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// Code extracts the ErrorCode from err, or "" when err is not an AppError.
func Code(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// --- Common Error Constructors ---

// InvalidArgument creates a new AppError for an unusable argument.
func InvalidArgument(name, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid argument %s: %s", name, reason),
		Details: map[string]any{"argument": name},
	}
}

// Validation creates a new AppError for configuration validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidConfig, Message: message}
}

// SinkClosed creates a new AppError for a sink that no longer accepts items.
func SinkClosed(sink string) *AppError {
	return &AppError{
		Code: ErrCodeSinkClosed, Message: fmt.Sprintf("%s is closed", sink),
		Details: map[string]any{"sink": sink},
	}
}

// ReductionStopped creates a new AppError for a step attempted after Stop.
func ReductionStopped() *AppError {
	return &AppError{Code: ErrCodeReductionStopped, Message: "reduction already stopped"}
}

// ReductionFinished creates a new AppError for a second finish.
func ReductionFinished() *AppError {
	return &AppError{Code: ErrCodeReductionFinished, Message: "reduction already finished"}
}

// Internal creates a new AppError for an unexpected internal failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		Cause: cause,
	}
}

// ExternalServiceError creates a new AppError for a failing backing service.
func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExternalService, Message: fmt.Sprintf("the %s service encountered an error", service),
		Retryable: true, Details: map[string]any{"service": service}, Cause: cause,
	}
}
