package httpclient

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kbukum/accessorkit/errors"
	"github.com/kbukum/accessorkit/logger"
	"github.com/kbukum/accessorkit/observability"
)

const backendName = "http"

// Client is the HTTP accessor. It is safe for concurrent use; MultiGet and
// MultiPost share one connection pool across the fan-out window.
type Client struct {
	httpClient *http.Client
	config     Config
	log        *logger.Logger
	metrics    *observability.Metrics
}

// New creates an HTTP accessor.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	if transport.MaxIdleConns < cfg.MaxIdleConnsPerHost {
		transport.MaxIdleConns = cfg.MaxIdleConnsPerHost
	}

	return &Client{
		httpClient: &http.Client{
			// Each call carries its own deadline on the context.
			Transport: otelhttp.NewTransport(transport,
				otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
					return observability.SpanHTTPRequest + " " + r.Method
				}),
			),
		},
		config:  cfg,
		log:     logger.OrDefault(log, backendName),
		metrics: observability.DefaultMetrics(),
	}, nil
}

// Get fetches url. A zero timeout uses the configured default.
func (c *Client) Get(ctx context.Context, url string, timeout time.Duration) (*Response, error) {
	return c.do(ctx, http.MethodGet, url, "", timeout)
}

// Post sends body to url. A zero timeout uses the configured default.
func (c *Client) Post(ctx context.Context, url, body string, timeout time.Duration) (*Response, error) {
	return c.do(ctx, http.MethodPost, url, body, timeout)
}

// Unwrap returns the underlying *http.Client.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.config
}

func (c *Client) do(ctx context.Context, method, url, body string, timeout time.Duration) (*Response, error) {
	if timeout <= 0 {
		timeout = c.config.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.execute(ctx, method, url, body)
	c.record(ctx, method, url, resp, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) execute(ctx context.Context, method, url, body string) (*Response, *Error) {
	req, err := c.buildRequest(ctx, method, url, body)
	if err != nil {
		return nil, newInvalidRequestError(url, err)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(ctx, url, 0, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, newTimeoutError(url, httpResp.StatusCode, err)
		}
		return nil, newDecodeError(url, httpResp.StatusCode, err)
	}

	return &Response{
		URL:        url,
		StatusCode: httpResp.StatusCode,
		Headers:    flattenHeaders(httpResp.Header),
		Body:       string(data),
	}, nil
}

func (c *Client) buildRequest(ctx context.Context, method, url, body string) (*http.Request, error) {
	var reader io.Reader
	if method != http.MethodGet {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if reader != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	}
	return req, nil
}

func (c *Client) record(ctx context.Context, method, url string, resp *Response, err *Error, d time.Duration) {
	op := strings.ToLower(method)
	if err != nil {
		c.metrics.RecordError(ctx, backendName, string(errors.CodeOf(err)))
		c.metrics.RecordOperation(ctx, backendName, op, err.Code.String(), d)
		c.log.Debug("HTTP request failed", logger.Fields(
			logger.FieldURL, url,
			logger.FieldOperation, op,
			logger.FieldError, err.Error(),
		))
		return
	}
	c.metrics.RecordOperation(ctx, backendName, op, strconv.Itoa(resp.StatusCode), d)
	c.log.Debug("HTTP request completed", logger.Fields(
		logger.FieldURL, url,
		logger.FieldOperation, op,
		logger.FieldStatus, resp.StatusCode,
		logger.FieldDuration, d.Milliseconds(),
	))
}
