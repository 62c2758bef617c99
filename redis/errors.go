package redis

import (
	"context"
	stderrors "errors"
	"net"

	"github.com/kbukum/accessorkit/errors"
)

const backendName = "redis"

// transportError classifies a go-redis failure as TIMEOUT or TRANSPORT_FAILURE.
func transportError(operation string, err error) *errors.AppError {
	var netErr net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &netErr) && netErr.Timeout()) {
		return errors.Timeout(operation, err).WithDetail("backend", backendName)
	}
	return errors.TransportFailure(operation, err).WithDetail("backend", backendName)
}

// wrapError leaves AppErrors untouched and classifies everything else.
func wrapError(operation string, err error) error {
	if err == nil || errors.IsAppError(err) {
		return err
	}
	return transportError(operation, err)
}
