package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"

	"github.com/kbukum/accessorkit/component"
	"github.com/kbukum/accessorkit/database"
	"github.com/kbukum/accessorkit/logger"
	"github.com/kbukum/accessorkit/testutil"
)

const listTables = "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name"

// Component is a database accessor over a private in-memory SQLite
// database. It implements both component.Component and
// testutil.TestComponent.
type Component struct {
	schema []string
	log    *logger.Logger

	mu      sync.RWMutex
	db      *database.DB
	started bool
}

var (
	_ component.Component    = (*Component)(nil)
	_ testutil.TestComponent = (*Component)(nil)
)

// NewComponent creates an unstarted test database.
func NewComponent() *Component {
	return &Component{log: logger.NewNop()}
}

// WithSchema registers statements run once on Start, typically CREATE TABLE.
func (c *Component) WithSchema(statements ...string) *Component {
	c.schema = append(c.schema, statements...)
	return c
}

// DB returns the accessor, or nil if not started.
func (c *Component) DB() *database.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// Name returns the component name.
func (c *Component) Name() string {
	return "database-test"
}

// Start opens the in-memory database and applies the schema.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return fmt.Errorf("component already started")
	}

	// Every connection of the pool shares the same named in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.New(database.Config{Enabled: true, LogLevel: "silent"}, c.log,
		database.WithDialector(sqlite.Open(dsn)))
	if err != nil {
		return err
	}
	if err := db.Open(ctx); err != nil {
		return fmt.Errorf("failed to open test database: %w", err)
	}
	for _, stmt := range c.schema {
		if _, err := db.ExecuteSQL(ctx, stmt); err != nil {
			_ = db.Close()
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	c.db = db
	c.started = true
	return nil
}

// Stop closes the database. The in-memory data is discarded.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil
	}
	c.started = false
	err := c.db.Close()
	c.db = nil
	return err
}

// Health returns the health status of the test database.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "database not started",
		}
	}
	if err := c.db.Ping(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Reset clears all data from all tables while preserving the schema.
func (c *Component) Reset(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return fmt.Errorf("component not started")
	}
	return c.clear(ctx)
}

func (c *Component) tables(ctx context.Context) ([]string, error) {
	rows, err := c.db.ExecuteSQL(ctx, listTables)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, fmt.Sprint(r["name"]))
	}
	return names, nil
}

func (c *Component) clear(ctx context.Context) error {
	tables, err := c.tables(ctx)
	if err != nil {
		return err
	}
	for _, table := range tables {
		if _, err := c.db.ExecuteSQL(ctx, fmt.Sprintf("DELETE FROM %q", table)); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Snapshot captures every row of every table.
func (c *Component) Snapshot(ctx context.Context) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return nil, fmt.Errorf("component not started")
	}

	tables, err := c.tables(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := make(map[string][]database.Row, len(tables))
	for _, table := range tables {
		rows, err := c.db.ExecuteSQL(ctx, fmt.Sprintf("SELECT * FROM %q", table))
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot table %s: %w", table, err)
		}
		snapshot[table] = rows
	}
	return snapshot, nil
}

// Restore returns the database to a state captured by Snapshot.
func (c *Component) Restore(ctx context.Context, snap interface{}) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return fmt.Errorf("component not started")
	}
	snapshot, ok := snap.(map[string][]database.Row)
	if !ok {
		return fmt.Errorf("invalid snapshot type: expected map[string][]database.Row, got %T", snap)
	}

	if err := c.clear(ctx); err != nil {
		return fmt.Errorf("failed to reset before restore: %w", err)
	}
	gdb := c.db.Unwrap().WithContext(ctx)
	for table, rows := range snapshot {
		for _, row := range rows {
			if err := gdb.Table(table).Create(map[string]interface{}(row)).Error; err != nil {
				return fmt.Errorf("failed to restore row to table %s: %w", table, err)
			}
		}
	}
	return nil
}
