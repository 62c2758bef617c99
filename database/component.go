package database

import (
	"context"
	"fmt"

	"github.com/kbukum/accessorkit/component"
	"github.com/kbukum/accessorkit/logger"
)

// Component wraps DB and implements component.Component.
type Component struct {
	db  *DB
	cfg Config
	log *logger.Logger
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a database component for the component registry.
func NewComponent(cfg Config, log *logger.Logger, opts ...Option) (*Component, error) {
	log = logger.OrDefault(log, "database")
	db, err := New(cfg, log, opts...)
	if err != nil {
		return nil, err
	}
	return &Component{db: db, cfg: db.cfg, log: log}, nil
}

// DB returns the accessor.
func (c *Component) DB() *DB { return c.db }

// Name returns the component name.
func (c *Component) Name() string { return "database" }

// Start attempts to open the connection. A failed open does not fail
// startup; it is logged and reported by Health and by every statement.
func (c *Component) Start(ctx context.Context) error {
	if err := c.db.Open(ctx); err != nil {
		c.log.Warn("Database unavailable at startup", logger.Fields(logger.FieldError, err.Error()))
	}
	return nil
}

// Stop closes the connection pool.
func (c *Component) Stop(_ context.Context) error {
	return c.db.Close()
}

// Health pings the server and reports pool usage.
func (c *Component) Health(ctx context.Context) component.Health {
	status := c.db.CheckHealth(ctx)
	if !status.Connected {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: status.Error,
		}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("open=%d in_use=%d idle=%d", status.OpenConns, status.InUseConns, status.IdleConns),
	}
}

// Describe returns a one-line summary of the configuration.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("%s db=%s pool=%d/%d", c.cfg.Addr(), c.cfg.Database, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if c.cfg.LazyConnect {
		details += " lazy-connect"
	}
	return component.Description{
		Name:    "MySQL",
		Type:    backendName,
		Details: details,
		Port:    c.cfg.Port,
	}
}
