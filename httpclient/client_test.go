package httpclient

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/accessorkit/errors"
	"github.com/kbukum/accessorkit/logger"
	"github.com/kbukum/accessorkit/version"
)

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	c, err := New(cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// slowHandler blocks until the client gives up or d elapses.
func slowHandler(d time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(d):
			_, _ = io.WriteString(w, "late")
		}
	}
}

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.Header().Set("X-Echo-Agent", r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, "hello")
	}))
	defer srv.Close()

	c := newTestClient(t, Config{})
	resp, err := c.Get(context.Background(), srv.URL+"/ok", time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.URL != srv.URL+"/ok" || resp.StatusCode != 200 || resp.Body != "hello" {
		t.Errorf("unexpected response %+v", resp)
	}
	if !resp.IsSuccess() || resp.IsError() {
		t.Error("expected 2xx response")
	}
	if resp.Headers["X-Echo-Agent"] != version.UserAgent() {
		t.Errorf("expected default user agent, got %q", resp.Headers["X-Echo-Agent"])
	}
}

func TestClient_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, strings.ToUpper(string(body)))
	}))
	defer srv.Close()

	c := newTestClient(t, Config{Headers: map[string]string{"X-Trace": "1"}})
	resp, err := c.Post(context.Background(), srv.URL, "payload", time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated || resp.Body != "PAYLOAD" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestClient_ErrorStatusIsSuccess(t *testing.T) {
	tests := []int{http.StatusNotFound, http.StatusTooManyRequests, http.StatusInternalServerError}
	for _, status := range tests {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
				_, _ = io.WriteString(w, "nope")
			}))
			defer srv.Close()

			resp, err := newTestClient(t, Config{}).Get(context.Background(), srv.URL, time.Second)
			if err != nil {
				t.Fatalf("expected success for HTTP %d, got %v", status, err)
			}
			if resp.StatusCode != status || resp.Body != "nope" || !resp.IsError() {
				t.Errorf("unexpected response %+v", resp)
			}
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(slowHandler(5 * time.Second))
	defer srv.Close()

	start := time.Now()
	_, err := newTestClient(t, Config{}).Get(context.Background(), srv.URL, 100*time.Millisecond)
	if !IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("expected the per-call timeout to bound the call")
	}
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Error("expected TIMEOUT app error in chain")
	}
	var httpErr *Error
	if !asError(err, &httpErr) || httpErr.URL != srv.URL || httpErr.StatusCode != 0 {
		t.Errorf("expected origin url and no status, got %+v", httpErr)
	}
}

func TestClient_DefaultTimeoutFromConfig(t *testing.T) {
	srv := httptest.NewServer(slowHandler(5 * time.Second))
	defer srv.Close()

	c := newTestClient(t, Config{Timeout: 100 * time.Millisecond})
	if _, err := c.Get(context.Background(), srv.URL, 0); !IsTimeout(err) {
		t.Fatalf("expected configured timeout to apply, got %v", err)
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	url := "http://" + l.Addr().String()
	_ = l.Close()

	_, err = newTestClient(t, Config{}).Get(context.Background(), url, time.Second)
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if !errors.Is(err, errors.ErrCodeTransportFailure) {
		t.Error("expected TRANSPORT_FAILURE app error in chain")
	}
	if StatusCodeOf(err) != 0 {
		t.Error("expected no status code")
	}
}

func TestClient_BodyReadFailureKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "short")
	}))
	defer srv.Close()

	_, err := newTestClient(t, Config{}).Get(context.Background(), srv.URL, time.Second)
	if !IsDecode(err) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if StatusCodeOf(err) != http.StatusOK {
		t.Errorf("expected status 200 on decode error, got %d", StatusCodeOf(err))
	}
}

func TestClient_InvalidURL(t *testing.T) {
	_, err := newTestClient(t, Config{}).Get(context.Background(), "http://bad host/", time.Second)
	var httpErr *Error
	if !asError(err, &httpErr) || httpErr.Code != ErrCodeInvalidRequest {
		t.Fatalf("expected invalid request error, got %v", err)
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Error("expected INVALID_INPUT app error in chain")
	}
}

func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if ok {
		*target = e
	}
	return ok
}
