package httpclient

import (
	"context"
	"fmt"

	"github.com/kbukum/accessorkit/component"
	"github.com/kbukum/accessorkit/logger"
)

// Component wraps Client with lifecycle management.
type Component struct {
	client *Client
	config Config
	log    *logger.Logger
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the HTTP component. The client is built in Start.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{config: cfg, log: log}
}

// Name returns the component name.
func (c *Component) Name() string { return backendName }

// Start builds the client.
func (c *Component) Start(_ context.Context) error {
	client, err := New(c.config, c.log)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

// Stop releases idle connections.
func (c *Component) Stop(_ context.Context) error {
	if c.client != nil {
		c.client.httpClient.CloseIdleConnections()
	}
	return nil
}

// Health is healthy once the client is built; the accessor has no fixed
// endpoint to probe.
func (c *Component) Health(_ context.Context) component.Health {
	if c.client == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns component description for the startup summary.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "HTTP",
		Type:    backendName,
		Details: fmt.Sprintf("timeout=%s concurrency=%d ordering=%s", c.config.Timeout, c.config.Concurrency, c.config.Ordering),
	}
}

// Client returns the accessor. Nil before Start.
func (c *Component) Client() *Client {
	return c.client
}
