package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/accessorkit/component"
	"github.com/kbukum/accessorkit/logger"
)

// Component wraps Client and implements component.Component.
type Component struct {
	client *Client
	cfg    Config
	log    *logger.Logger
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a Redis component for the component registry.
func NewComponent(cfg Config, log *logger.Logger) (*Component, error) {
	log = logger.OrDefault(log, backendName)
	client, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	return &Component{client: client, cfg: client.cfg, log: log}, nil
}

// Client returns the accessor.
func (c *Component) Client() *Client { return c.client }

// Name returns the component name.
func (c *Component) Name() string { return backendName }

// Start attempts to open the connection. A failed open does not fail
// startup; it is logged and reported by Health and by every operation.
func (c *Component) Start(ctx context.Context) error {
	if err := c.client.Open(ctx); err != nil {
		c.log.Warn("Redis unavailable at startup", logger.Fields(logger.FieldError, err.Error()))
	}
	return nil
}

// Stop closes the connection pool.
func (c *Component) Stop(_ context.Context) error {
	return c.client.Close()
}

// Health pings the server.
func (c *Component) Health(ctx context.Context) component.Health {
	if err := c.client.Ping(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: err.Error(),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns a one-line summary of the configuration.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("%s db=%d pool=%d", c.cfg.Addr(), c.cfg.DB, c.cfg.PoolSize)
	if c.cfg.LazyAuth {
		details += " lazy-auth"
	}
	return component.Description{
		Name:    "Redis",
		Type:    backendName,
		Details: details,
		Port:    c.cfg.Port,
	}
}
