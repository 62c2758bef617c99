package database

import (
	"context"
	"fmt"
	"net"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"

	"github.com/kbukum/accessorkit/errors"
)

func TestFromDatabase(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		want       errors.ErrorCode
		connection bool
	}{
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), errors.ErrCodeTimeout, false},
		{"io timeout", fmt.Errorf("read tcp: i/o timeout"), errors.ErrCodeTimeout, false},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: fmt.Errorf("connection refused")}, errors.ErrCodeTransportFailure, true},
		{"invalid conn", mysqldriver.ErrInvalidConn, errors.ErrCodeTransportFailure, true},
		{"syntax", &mysqldriver.MySQLError{Number: 1064, Message: "syntax error"}, errors.ErrCodeTransportFailure, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDatabase(tt.err, "execute_sql")
			if got.Code != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Code)
			}
			if _, ok := got.Details["connection"]; ok != tt.connection {
				t.Errorf("connection detail = %v, want %v", ok, tt.connection)
			}
			if got.Details["backend"] != backendName {
				t.Errorf("expected backend detail, got %v", got.Details)
			}
		})
	}
}

func TestFromDatabase_KeepsAppErrors(t *testing.T) {
	in := errors.ConnectionNotOpen(backendName)
	if got := FromDatabase(fmt.Errorf("wrapped: %w", in), "x"); got != in {
		t.Errorf("expected AppError to pass through, got %v", got)
	}
	if FromDatabase(nil, "x") != nil {
		t.Error("expected nil for nil")
	}
}

func TestServerErrorNumber(t *testing.T) {
	err := fmt.Errorf("exec: %w", &mysqldriver.MySQLError{Number: 1146, Message: "table missing"})
	if n := ServerErrorNumber(err); n != 1146 {
		t.Errorf("expected 1146, got %d", n)
	}
	if FromDatabase(err, "x").Details["mysql_errno"] != uint16(1146) {
		t.Error("expected errno detail")
	}
	if ServerErrorNumber(fmt.Errorf("plain")) != 0 {
		t.Error("expected 0 for non-server errors")
	}
}
