package database

import (
	"strings"
	"testing"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Host != "localhost" || cfg.Port != 3308 || cfg.User != "root" {
		t.Errorf("unexpected server defaults %s:%d user=%s", cfg.Host, cfg.Port, cfg.User)
	}
	if cfg.Charset != "utf8" {
		t.Errorf("Charset = %q, want utf8", cfg.Charset)
	}
	if cfg.MaxOpenConns != 2 || cfg.MaxIdleConns != 2 {
		t.Errorf("pool = %d/%d, want 2/2", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != "1h" || cfg.Timeout != "10s" || cfg.SlowQueryThreshold != "200ms" {
		t.Errorf("unexpected duration defaults %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestConfig_ApplyDefaults_PreservesExistingValues(t *testing.T) {
	cfg := Config{Host: "db", Port: 3306, User: "app", Charset: "utf8mb4", MaxOpenConns: 8, MaxIdleConns: 4}
	cfg.ApplyDefaults()

	if cfg.Host != "db" || cfg.Port != 3306 || cfg.User != "app" || cfg.Charset != "utf8mb4" {
		t.Errorf("expected explicit values kept, got %+v", cfg)
	}
	if cfg.MaxOpenConns != 8 || cfg.MaxIdleConns != 4 {
		t.Errorf("expected pool 8/4, got %d/%d", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"disabled skips validation", func(c *Config) { c.Enabled = false; c.Port = -1 }, false},
		{"port out of range", func(c *Config) { c.Port = 70000 }, true},
		{"idle above open", func(c *Config) { c.MaxIdleConns = 5 }, true},
		{"bad lifetime", func(c *Config) { c.ConnMaxLifetime = "forever" }, true},
		{"bad timeout", func(c *Config) { c.Timeout = "10" }, true},
		{"bad slow threshold", func(c *Config) { c.SlowQueryThreshold = "fast" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"info log level", func(c *Config) { c.LogLevel = "info" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Enabled: true}
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{Password: "s3cret", Database: "app"}
	cfg.ApplyDefaults()
	dsn := cfg.DSN()

	for _, part := range []string{"root:s3cret@tcp(localhost:3308)/app", "charset=utf8", "parseTime=true", "timeout=10s"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("expected %q in %q", part, dsn)
		}
	}
}
