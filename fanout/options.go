package fanout

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/accessorkit/logger"
)

// DefaultLimit is the concurrency window used when none is given.
const DefaultLimit = 128

// Ordering selects how outcomes are arranged in the result slice.
type Ordering int

const (
	// Ordered places the outcome for requests[i] at position i.
	Ordered Ordering = iota
	// Unordered appends outcomes as operations complete.
	Unordered
)

func (o Ordering) String() string {
	switch o {
	case Ordered:
		return "ordered"
	case Unordered:
		return "unordered"
	default:
		return fmt.Sprintf("ordering(%d)", int(o))
	}
}

// ParseOrdering maps "ordered"/"unordered" (or "") to an Ordering.
func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case "", "ordered":
		return Ordered, nil
	case "unordered":
		return Unordered, nil
	default:
		return Ordered, fmt.Errorf("unknown ordering %q", s)
	}
}

// Options configures a Run.
type Options struct {
	Limit    int
	Ordering Ordering
	Logger   *logger.Logger
	Meter    metric.Meter
}

// Option mutates Options.
type Option func(*Options)

// WithLimit sets the maximum number of operations in flight.
func WithLimit(n int) Option {
	return func(o *Options) { o.Limit = n }
}

// WithOrdering selects ordered or completion-order results.
func WithOrdering(ord Ordering) Option {
	return func(o *Options) { o.Ordering = ord }
}

// WithLogger sets the logger used for per-batch debug output.
func WithLogger(l *logger.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMeter sets the meter the fan-out instruments are created on.
func WithMeter(m metric.Meter) Option {
	return func(o *Options) { o.Meter = m }
}

// Validate reports a non-positive limit or an unknown ordering.
func (o Options) Validate() error {
	if o.Limit < 1 {
		return fmt.Errorf("fanout: limit must be >= 1 (got: %d)", o.Limit)
	}
	if o.Ordering != Ordered && o.Ordering != Unordered {
		return fmt.Errorf("fanout: unknown %s", o.Ordering)
	}
	return nil
}

// newOptions applies opts over the defaults. A limit below 1 falls back to
// DefaultLimit so the window is never empty.
func newOptions(opts ...Option) Options {
	o := Options{Limit: DefaultLimit, Ordering: Ordered}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.Ordering != Unordered {
		o.Ordering = Ordered
	}
	return o
}
