package httpclient

import (
	"context"
	"time"

	"github.com/kbukum/accessorkit/fanout"
)

// GetOutcome is the result of one URL in a MultiGet.
type GetOutcome = fanout.Outcome[string, *Response]

// PostOutcome is the result of one Target in a MultiPost.
type PostOutcome = fanout.Outcome[Target, *Response]

// MultiGet fetches every URL with at most Config.Concurrency requests in
// flight and returns exactly one outcome per URL. A failed URL never
// affects the others. timeout applies to each request on its own.
func (c *Client) MultiGet(ctx context.Context, urls []string, timeout time.Duration, ordering fanout.Ordering) []GetOutcome {
	return fanout.Run(ctx, urls, func(ctx context.Context, url string) (*Response, error) {
		return c.Get(ctx, url, timeout)
	}, c.fanoutOptions(ordering)...)
}

// MultiPost sends every target like MultiGet does.
func (c *Client) MultiPost(ctx context.Context, targets []Target, timeout time.Duration, ordering fanout.Ordering) []PostOutcome {
	return fanout.Run(ctx, targets, func(ctx context.Context, t Target) (*Response, error) {
		return c.Post(ctx, t.URL, t.Body, timeout)
	}, c.fanoutOptions(ordering)...)
}

// MultiGetDefault is MultiGet with the configured default ordering.
func (c *Client) MultiGetDefault(ctx context.Context, urls []string, timeout time.Duration) []GetOutcome {
	return c.MultiGet(ctx, urls, timeout, c.config.ordering())
}

func (c *Client) fanoutOptions(ordering fanout.Ordering) []fanout.Option {
	return []fanout.Option{
		fanout.WithLimit(c.config.Concurrency),
		fanout.WithOrdering(ordering),
		fanout.WithLogger(c.log),
	}
}
