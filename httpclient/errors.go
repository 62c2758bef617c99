package httpclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"

	"github.com/kbukum/accessorkit/errors"
)

// ErrorCode classifies HTTP accessor failures.
type ErrorCode int

const (
	// ErrCodeTimeout: the call exceeded its timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection: no response was received (refused, DNS, reset).
	ErrCodeConnection
	// ErrCodeDecode: a response arrived but its body could not be read.
	ErrCodeDecode
	// ErrCodeInvalidRequest: the request could not be built (malformed URL).
	ErrCodeInvalidRequest
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeDecode:
		return "decode"
	case ErrCodeInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Error is the failure side of one HTTP call. It always carries the
// origin URL; StatusCode is set only when a response head was received.
// Err is an *errors.AppError wrapping the transport error, so
// errors.Is(err, errors.ErrCodeTimeout) works on an *Error too.
type Error struct {
	URL        string
	StatusCode int
	Code       ErrorCode
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s %s (HTTP %d): %v", e.Code, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("httpclient: %s %s: %v", e.Code, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

func newTimeoutError(url string, status int, cause error) *Error {
	return &Error{
		URL: url, StatusCode: status, Code: ErrCodeTimeout,
		Err: errors.Timeout("http "+url, cause).WithDetail("backend", "http"),
	}
}

func newConnectionError(url string, cause error) *Error {
	return &Error{
		URL: url, Code: ErrCodeConnection,
		Err: errors.TransportFailure("http "+url, cause).WithDetail("backend", "http"),
	}
}

func newDecodeError(url string, status int, cause error) *Error {
	return &Error{
		URL: url, StatusCode: status, Code: ErrCodeDecode,
		Err: errors.DecodeFailure("http "+url, cause).WithDetail("status", status),
	}
}

func newInvalidRequestError(url string, cause error) *Error {
	return &Error{
		URL: url, Code: ErrCodeInvalidRequest,
		Err: errors.InvalidInput("url", cause.Error()).WithCause(cause),
	}
}

// classify turns a transport error into a timeout or connection Error.
func classify(ctx context.Context, url string, status int, err error) *Error {
	var netErr net.Error
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) ||
		stderrors.Is(err, context.DeadlineExceeded) ||
		(stderrors.As(err, &netErr) && netErr.Timeout()) {
		return newTimeoutError(url, status, err)
	}
	return newConnectionError(url, err)
}

// IsTimeout reports whether err is a timed-out call.
func IsTimeout(err error) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Code == ErrCodeTimeout
}

// IsConnection reports whether err is a call that got no response.
func IsConnection(err error) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Code == ErrCodeConnection
}

// IsDecode reports whether err is an unreadable response body.
func IsDecode(err error) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Code == ErrCodeDecode
}

// StatusCodeOf returns the HTTP status carried by err, or 0.
func StatusCodeOf(err error) int {
	var e *Error
	if stderrors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
