package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection lifecycle errors
const (
	// ErrCodeConnectionNotOpen indicates an operation ran before a successful open.
	ErrCodeConnectionNotOpen ErrorCode = "CONNECTION_NOT_OPEN"
	// ErrCodeOpenFailure indicates the last open attempt failed.
	ErrCodeOpenFailure ErrorCode = "OPEN_FAILURE"
)

// Transport errors (retryable)
const (
	// ErrCodeTransportFailure indicates a network or protocol error mid-operation.
	ErrCodeTransportFailure ErrorCode = "TRANSPORT_FAILURE"
	// ErrCodeTimeout indicates the operation exceeded its own timeout.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Authentication errors
const (
	// ErrCodeAuthenticationRequired indicates the server asked for authentication.
	ErrCodeAuthenticationRequired ErrorCode = "AUTHENTICATION_REQUIRED"
	// ErrCodeAuthenticationFailed indicates authentication could not be recovered.
	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
)

// Payload errors
const (
	// ErrCodeDecodeFailure indicates a response had an unexpected shape.
	ErrCodeDecodeFailure ErrorCode = "DECODE_FAILURE"
	// ErrCodeInvalidInput indicates the caller passed invalid arguments.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTransportFailure:       true,
	ErrCodeTimeout:                true,
	ErrCodeOpenFailure:            true,
	ErrCodeAuthenticationRequired: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
