package database

import (
	"context"
	stderrors "errors"
	"net"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"

	"github.com/kbukum/accessorkit/errors"
)

// IsConnectionError checks if a database error means the server could not
// be reached or the connection broke.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, mysqldriver.ErrInvalidConn) {
		return true
	}
	var opErr *net.OpError
	if stderrors.As(err, &opErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	patterns := []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no route to host",
		"network is unreachable",
		"connection closed",
		"driver: bad connection",
		"invalid connection",
	}
	for _, p := range patterns {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}

// IsTimeoutError checks if a database error is a deadline or dial timeout.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "i/o timeout")
}

// ServerErrorNumber returns the MySQL error number carried by err, or 0.
func ServerErrorNumber(err error) uint16 {
	var myErr *mysqldriver.MySQLError
	if stderrors.As(err, &myErr) {
		return myErr.Number
	}
	return 0
}

// FromDatabase converts a driver or GORM error to an AppError.
func FromDatabase(err error, operation string) *errors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}

	var appErr *errors.AppError
	switch {
	case IsTimeoutError(err):
		appErr = errors.Timeout(operation, err)
	case IsConnectionError(err):
		appErr = errors.TransportFailure(operation, err).WithDetail("connection", true)
	default:
		appErr = errors.TransportFailure(operation, err)
	}
	if n := ServerErrorNumber(err); n != 0 {
		appErr = appErr.WithDetail("mysql_errno", n)
	}
	return appErr.WithDetail("backend", backendName)
}
