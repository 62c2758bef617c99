package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified accessor error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried by the caller.
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

// --- Constructors ---

// ConnectionNotOpen reports an operation attempted before any successful open.
func ConnectionNotOpen(backend string) *AppError {
	return &AppError{
		Code: ErrCodeConnectionNotOpen, Message: fmt.Sprintf("%s connection is not open", backend),
		Details: map[string]any{"backend": backend},
	}
}

// OpenFailure reports that the last open attempt failed with cause.
func OpenFailure(backend string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeOpenFailure, Message: fmt.Sprintf("unable to open %s connection", backend),
		Retryable: true, Details: map[string]any{"backend": backend}, Cause: cause,
	}
}

// TransportFailure reports a network or protocol error during operation.
func TransportFailure(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTransportFailure, Message: fmt.Sprintf("%s failed", operation),
		Retryable: true, Details: map[string]any{"operation": operation}, Cause: cause,
	}
}

// Timeout reports an operation that exceeded its own deadline.
func Timeout(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s timed out", operation),
		Retryable: true, Details: map[string]any{"operation": operation}, Cause: cause,
	}
}

// AuthenticationRequired reports that the server rejected a command pending authentication.
func AuthenticationRequired(cause error) *AppError {
	return &AppError{
		Code: ErrCodeAuthenticationRequired, Message: "authentication required",
		Retryable: true, Cause: cause,
	}
}

// AuthenticationFailed reports a terminal authentication failure.
func AuthenticationFailed(reason string, cause error) *AppError {
	if reason == "" {
		reason = "authentication failed"
	}
	return &AppError{
		Code: ErrCodeAuthenticationFailed, Message: reason, Cause: cause,
	}
}

// DecodeFailure reports a response whose shape could not be decoded.
func DecodeFailure(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDecodeFailure, Message: fmt.Sprintf("unexpected response for %s", operation),
		Details: map[string]any{"operation": operation}, Cause: cause,
	}
}

// InvalidInput reports a caller error on a named field.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		Details: details,
	}
}

// --- Inspection ---

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
