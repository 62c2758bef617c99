// Package errors provides the tagged error kinds shared by every accessor.
// Each failure carries a machine-readable ErrorCode, a retryable hint and
// an optional underlying cause that stays reachable through errors.Unwrap.
package errors
