package database

import (
	"fmt"
	"net"
	"strconv"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"

	"github.com/kbukum/accessorkit/validation"
)

// Config holds MySQL connection configuration.
type Config struct {
	// Enabled controls whether the database accessor is registered.
	Enabled bool `mapstructure:"enabled"`

	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"gte=1,lte=65535"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	Charset  string `mapstructure:"charset"`

	// LazyConnect lets ExecuteSQL open the connection on first use when
	// Open was never called.
	LazyConnect bool `mapstructure:"lazy_connect"`

	// MaxOpenConns sets the maximum number of open connections to the database.
	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=1"`

	// MaxIdleConns sets the maximum number of idle connections in the pool.
	MaxIdleConns int `mapstructure:"max_idle_conns" validate:"gte=1,ltefield=MaxOpenConns"`

	// ConnMaxLifetime is the maximum time a connection may be reused (e.g. "1h", "30m").
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`

	// Timeout bounds dialing a new connection (e.g. "10s").
	Timeout string `mapstructure:"timeout"`

	// SlowQueryThreshold is the duration above which queries are logged as slow (e.g. "200ms").
	SlowQueryThreshold string `mapstructure:"slow_query_threshold"`

	// LogLevel is the query log level: silent, error, warn or info.
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=silent error warn info"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 3308
	}
	if c.User == "" {
		c.User = "root"
	}
	if c.Charset == "" {
		c.Charset = "utf8"
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 2
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime == "" {
		c.ConnMaxLifetime = "1h"
	}
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
	if c.SlowQueryThreshold == "" {
		c.SlowQueryThreshold = "200ms"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// Validate checks that required fields are present and parseable.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	for name, v := range map[string]string{
		"conn_max_lifetime":    c.ConnMaxLifetime,
		"timeout":              c.Timeout,
		"slow_query_threshold": c.SlowQueryThreshold,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
	}
	return nil
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DSN renders the go-sql-driver connection string.
func (c *Config) DSN() string {
	dc := mysqldriver.NewConfig()
	dc.User = c.User
	dc.Passwd = c.Password
	dc.Net = "tcp"
	dc.Addr = c.Addr()
	dc.DBName = c.Database
	dc.Timeout = parseDuration(c.Timeout)
	dc.ParseTime = true
	if c.Charset != "" {
		dc.Params = map[string]string{"charset": c.Charset}
	}
	return dc.FormatDSN()
}

func parseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
