package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/kbukum/accessorkit/errors"
	"github.com/kbukum/accessorkit/logger"
	"github.com/kbukum/accessorkit/observability"
)

const backendName = "mysql"

// Row is one result row keyed by column name. Values are whatever the
// driver returns; byte slices are converted to strings.
type Row map[string]any

// Option configures a DB.
type Option func(*DB)

// WithDialector replaces the MySQL dialector, e.g. with an SQLite one in tests.
func WithDialector(d gorm.Dialector) Option {
	return func(db *DB) { db.dialector = d }
}

// DB is the MySQL accessor. The pool is created by Open; until then every
// statement fails with CONNECTION_NOT_OPEN, or with OPEN_FAILURE when the
// last Open failed.
type DB struct {
	cfg       Config
	log       *logger.Logger
	dialector gorm.Dialector
	metrics   *observability.Metrics

	mu          sync.RWMutex
	gormDB      *gorm.DB
	attempted   bool
	lastOpenErr error
}

// New creates a MySQL accessor. No connection is made until Open.
func New(cfg Config, log *logger.Logger, opts ...Option) (*DB, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}
	d := &DB{
		cfg:     cfg,
		log:     logger.OrDefault(log, backendName),
		metrics: observability.DefaultMetrics(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.dialector == nil {
		d.dialector = gormmysql.Open(cfg.DSN())
	}
	return d, nil
}

// Open makes a single connection attempt. A failure is returned and also
// kept: later statements report it as OPEN_FAILURE.
func (d *DB) Open(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.openLocked(ctx)
}

func (d *DB) openLocked(ctx context.Context) error {
	if d.gormDB != nil {
		return nil
	}
	d.attempted = true

	gdb, err := d.connect(ctx)
	if err != nil {
		d.lastOpenErr = err
		d.log.Warn("Database open failed", logger.Fields(
			"addr", d.cfg.Addr(),
			logger.FieldError, err.Error(),
		))
		return errors.OpenFailure(backendName, err)
	}

	d.gormDB = gdb
	d.lastOpenErr = nil
	d.log.Info("Database connection opened", logger.Fields(
		"addr", d.cfg.Addr(),
		"database", d.cfg.Database,
		"pool", d.cfg.MaxOpenConns,
	))
	return nil
}

func (d *DB) connect(ctx context.Context) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: newGormLogger(d.log, parseDuration(d.cfg.SlowQueryThreshold), parseLogLevel(d.cfg.LogLevel)),
	}
	gdb, err := gorm.Open(d.dialector, gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	sqlDB.SetMaxOpenConns(d.cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(d.cfg.MaxIdleConns)
	if lifetime := parseDuration(d.cfg.ConnMaxLifetime); lifetime > 0 {
		sqlDB.SetConnMaxLifetime(lifetime)
	}
	return gdb, nil
}

// LastOpenError returns the cause of the last failed Open, or nil.
func (d *DB) LastOpenError() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastOpenErr
}

// IsOpen reports whether a connection pool is established.
func (d *DB) IsOpen() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.gormDB != nil
}

// Close releases the pool. Safe to call multiple times. A closed accessor
// behaves like one that was never opened.
func (d *DB) Close() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.attempted = false
	d.lastOpenErr = nil
	if d.gormDB == nil {
		return nil
	}
	sqlDB, err := d.gormDB.DB()
	d.gormDB = nil
	if err != nil {
		return err
	}
	d.log.Info("Closing database connection")
	return sqlDB.Close()
}

func (d *DB) requireOpen(ctx context.Context) (*gorm.DB, error) {
	d.mu.RLock()
	gdb, attempted, lastErr := d.gormDB, d.attempted, d.lastOpenErr
	d.mu.RUnlock()

	switch {
	case gdb != nil:
		return gdb, nil
	case lastErr != nil:
		return nil, errors.OpenFailure(backendName, lastErr)
	case !attempted && d.cfg.LazyConnect:
		return d.lazyOpen(ctx)
	default:
		return nil, errors.ConnectionNotOpen(backendName)
	}
}

// lazyOpen opens on first use. Only one caller makes the attempt.
func (d *DB) lazyOpen(ctx context.Context) (*gorm.DB, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.gormDB == nil && d.attempted {
		if d.lastOpenErr != nil {
			return nil, errors.OpenFailure(backendName, d.lastOpenErr)
		}
		return nil, errors.ConnectionNotOpen(backendName)
	}
	if err := d.openLocked(ctx); err != nil {
		return nil, err
	}
	return d.gormDB, nil
}

// ExecuteSQL runs statement and returns its rows in order. A statement
// without a result set yields an empty slice.
func (d *DB) ExecuteSQL(ctx context.Context, statement string) ([]Row, error) {
	if statement == "" {
		return nil, errors.InvalidInput("statement", "empty statement")
	}
	gdb, err := d.requireOpen(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanDBQuery)
	start := time.Now()
	rows, err := query(gdb.WithContext(ctx), statement)
	if err != nil {
		err = FromDatabase(err, "execute_sql")
	}
	observability.EndSpan(span, err)

	status := "ok"
	if err != nil {
		status = "error"
		d.metrics.RecordError(ctx, backendName, string(errors.CodeOf(err)))
	}
	d.metrics.RecordOperation(ctx, backendName, "execute_sql", status, time.Since(start))
	return rows, err
}

func query(gdb *gorm.DB, statement string) ([]Row, error) {
	rs, err := gdb.Raw(statement).Rows()
	if err != nil {
		return nil, err
	}
	defer rs.Close()
	return scanRows(rs)
}

func scanRows(rs *sql.Rows) ([]Row, error) {
	out := []Row{}
	cols, err := rs.Columns()
	if err != nil {
		return nil, err
	}
	for rs.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rs.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rs.Err()
}

// Ping verifies the connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	gdb, err := d.requireOpen(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return FromDatabase(err, "ping")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return FromDatabase(err, "ping")
	}
	return nil
}

// Unwrap returns the underlying GORM handle, or nil when not open.
func (d *DB) Unwrap() *gorm.DB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.gormDB
}
