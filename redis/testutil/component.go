package testutil

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/accessorkit/component"
	"github.com/kbukum/accessorkit/redis"
	"github.com/kbukum/accessorkit/testutil"
)

// Component is an in-memory Redis server backed by miniredis.
type Component struct {
	password string
	db       int

	mu      sync.RWMutex
	mini    *miniredis.Miniredis
	started bool
}

var (
	_ component.Component    = (*Component)(nil)
	_ testutil.TestComponent = (*Component)(nil)
)

// Option configures a Component.
type Option func(*Component)

// WithPassword makes the server answer NOAUTH until a connection logs in
// with password.
func WithPassword(password string) Option {
	return func(c *Component) { c.password = password }
}

// WithDB sets the logical database the accessor config points at.
func WithDB(db int) Option {
	return func(c *Component) { c.db = db }
}

// NewComponent creates an unstarted in-memory Redis.
func NewComponent(opts ...Option) *Component {
	c := &Component{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the component name.
func (c *Component) Name() string { return "redis-test" }

// Start launches the server.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return fmt.Errorf("component already started")
	}
	mini, err := miniredis.Run()
	if err != nil {
		return fmt.Errorf("failed to start miniredis: %w", err)
	}
	if c.password != "" {
		mini.RequireAuth(c.password)
	}
	c.mini = mini
	c.started = true
	return nil
}

// Stop shuts the server down.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil
	}
	c.mini.Close()
	c.started = false
	return nil
}

// Health reports whether the server is running.
func (c *Component) Health(_ context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Server returns the miniredis instance for direct inspection, or nil if
// not started.
func (c *Component) Server() *miniredis.Miniredis {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mini
}

// Config returns an accessor config pointing at the running server. With
// a password set the config uses lazy authentication.
func (c *Component) Config() redis.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cfg := redis.Config{Enabled: true, DB: c.db, PoolSize: 2}
	if c.mini != nil {
		host, port, _ := net.SplitHostPort(c.mini.Addr())
		cfg.Host = host
		cfg.Port, _ = strconv.Atoi(port)
	}
	if c.password != "" {
		cfg.Password = c.password
		cfg.LazyAuth = true
	}
	return cfg
}

// Reset flushes every database.
func (c *Component) Reset(_ context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return fmt.Errorf("component not started")
	}
	c.mini.FlushAll()
	return nil
}

// Snapshot captures the string keys of the configured database.
func (c *Component) Snapshot(_ context.Context) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return nil, fmt.Errorf("component not started")
	}
	db := c.mini.DB(c.db)
	snapshot := make(map[string]string)
	for _, key := range db.Keys() {
		if val, err := db.Get(key); err == nil {
			snapshot[key] = val
		}
	}
	return snapshot, nil
}

// Restore replaces the configured database with snapshot.
func (c *Component) Restore(_ context.Context, snap interface{}) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return fmt.Errorf("component not started")
	}
	snapshot, ok := snap.(map[string]string)
	if !ok {
		return fmt.Errorf("invalid snapshot type: expected map[string]string, got %T", snap)
	}
	db := c.mini.DB(c.db)
	db.FlushDB()
	for key, val := range snapshot {
		if err := db.Set(key, val); err != nil {
			return fmt.Errorf("failed to restore key %q: %w", key, err)
		}
	}
	return nil
}
