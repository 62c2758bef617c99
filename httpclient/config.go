package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/accessorkit/fanout"
	"github.com/kbukum/accessorkit/validation"
	"github.com/kbukum/accessorkit/version"
)

const (
	defaultTimeout = 60 * time.Second
)

// Config configures the HTTP accessor.
type Config struct {
	// Enabled controls whether the HTTP accessor is registered.
	Enabled bool `mapstructure:"enabled"`

	// Timeout applies to calls made with a zero timeout. Defaults to 60s.
	Timeout time.Duration `mapstructure:"timeout"`

	// Concurrency is the fan-out window of MultiGet/MultiPost. Defaults to 128.
	Concurrency int `mapstructure:"concurrency" validate:"gte=0"`

	// Ordering is the default arrangement of fan-out results:
	// "ordered" (default) or "unordered".
	Ordering string `mapstructure:"ordering" validate:"omitempty,oneof=ordered unordered"`

	// UserAgent is sent on every request. Defaults to accessorkit/<version>.
	UserAgent string `mapstructure:"user_agent"`

	// Headers are sent on every request.
	Headers map[string]string `mapstructure:"headers"`

	// MaxIdleConnsPerHost bounds kept-alive connections per host.
	// Defaults to Concurrency so a full fan-out window can reuse them.
	MaxIdleConnsPerHost int `mapstructure:"max_idle_conns_per_host" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Concurrency <= 0 {
		c.Concurrency = fanout.DefaultLimit
	}
	if c.Ordering == "" {
		c.Ordering = fanout.Ordered.String()
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
	if c.MaxIdleConnsPerHost <= 0 {
		c.MaxIdleConnsPerHost = c.Concurrency
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("httpclient: timeout must not be negative")
	}
	return nil
}

func (c *Config) ordering() fanout.Ordering {
	ord, _ := fanout.ParseOrdering(c.Ordering)
	return ord
}
