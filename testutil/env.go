package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/kbukum/accessorkit/config"
)

const (
	// EnvFileVariable names an environment variable holding the path of the
	// test environment file.
	EnvFileVariable = "ACCESSORKIT_TEST_ENV"

	// DefaultEnvFile is looked up in the working directory and its parents
	// when EnvFileVariable is unset.
	DefaultEnvFile = "test_env.config"
)

// Env is a flat view of the test environment file, keyed by dotted path:
//
//	redis:
//	  host: 127.0.0.1
//	  port: 6380
//	  passwd: secret
//	  db: 1
//
// yields {"redis.host": "127.0.0.1", "redis.port": "6380", ...}. Tests take
// an Env explicitly; nothing reads it from a global.
type Env map[string]string

// LoadEnv reads a YAML or JSON test environment file.
func LoadEnv(path string) (Env, error) {
	flat, err := config.ReadFlat(path)
	if err != nil {
		return nil, err
	}
	return Env(flat), nil
}

// FindEnv loads the test environment from EnvFileVariable or the nearest
// DefaultEnvFile. A missing file yields an empty Env; a file that exists but
// cannot be read fails the test.
func FindEnv(tb testing.TB) Env {
	tb.Helper()
	path := os.Getenv(EnvFileVariable)
	if path == "" {
		path = findUp(DefaultEnvFile)
	}
	if path == "" {
		return Env{}
	}
	env, err := LoadEnv(path)
	if err != nil {
		tb.Fatalf("test env %s: %v", path, err)
	}
	return env
}

// Get returns the value under key.
func (e Env) Get(key string) (string, bool) {
	v, ok := e[key]
	return v, ok && v != ""
}

// String returns the value under key or def.
func (e Env) String(key, def string) string {
	if v, ok := e.Get(key); ok {
		return v
	}
	return def
}

// Int returns the integer under key, or def when absent or malformed.
func (e Env) Int(key string, def int) int {
	v, ok := e.Get(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Has reports whether every key is present.
func (e Env) Has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := e.Get(k); !ok {
			return false
		}
	}
	return true
}

// Require skips the test unless every key is present.
func (e Env) Require(tb testing.TB, keys ...string) {
	tb.Helper()
	for _, k := range keys {
		if _, ok := e.Get(k); !ok {
			tb.Skipf("test env has no %q; skipping live backend test", k)
		}
	}
}

func findUp(name string) string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
