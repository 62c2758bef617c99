package httpclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kbukum/accessorkit/errors"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	expired, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-expired.Done()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want ErrorCode
	}{
		{"deadline on context", expired, fmt.Errorf("read: closed"), ErrCodeTimeout},
		{"deadline in chain", context.Background(), fmt.Errorf("get: %w", context.DeadlineExceeded), ErrCodeTimeout},
		{"net timeout", context.Background(), timeoutErr{}, ErrCodeTimeout},
		{"refused", context.Background(), fmt.Errorf("dial tcp: connection refused"), ErrCodeConnection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.ctx, "http://x", 0, tt.err)
			if got.Code != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Code)
			}
			if !stderrors.Is(got, tt.err) {
				t.Error("expected cause to stay in the chain")
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	e := newDecodeError("http://x/y", 200, fmt.Errorf("unexpected EOF"))
	msg := e.Error()
	for _, part := range []string{"decode", "http://x/y", "HTTP 200", "unexpected EOF"} {
		if !strings.Contains(msg, part) {
			t.Errorf("expected %q in %q", part, msg)
		}
	}
	if !errors.Is(e, errors.ErrCodeDecodeFailure) {
		t.Error("expected DECODE_FAILURE in chain")
	}

	c := newConnectionError("http://x", fmt.Errorf("reset"))
	if strings.Contains(c.Error(), "HTTP") {
		t.Errorf("expected no status in %q", c.Error())
	}
}

func TestErrorCode_String(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeTimeout:        "timeout",
		ErrCodeConnection:     "connection",
		ErrCodeDecode:         "decode",
		ErrCodeInvalidRequest: "invalid_request",
		ErrorCode(42):         "unknown",
	}
	for code, want := range tests {
		if code.String() != want {
			t.Errorf("expected %q, got %q", want, code.String())
		}
	}
}

func TestPredicates_PlainError(t *testing.T) {
	err := fmt.Errorf("plain")
	if IsTimeout(err) || IsConnection(err) || IsDecode(err) || StatusCodeOf(err) != 0 {
		t.Error("plain errors must not match")
	}
	wrapped := fmt.Errorf("outer: %w", newTimeoutError("u", 0, context.DeadlineExceeded))
	if !IsTimeout(wrapped) {
		t.Error("expected wrapped timeout to match")
	}
}
