package testutil

import (
	"testing"

	"github.com/kbukum/accessorkit/redis"
	"github.com/kbukum/accessorkit/testutil"
)

// LiveConfig builds an accessor config from the redis.* keys of env and
// skips the test when redis.host is absent. A redis.passwd value enables
// lazy authentication.
func LiveConfig(tb testing.TB, env testutil.Env) redis.Config {
	tb.Helper()
	env.Require(tb, "redis.host")

	cfg := redis.Config{
		Enabled:  true,
		Host:     env.String("redis.host", ""),
		Port:     env.Int("redis.port", 6380),
		Username: env.String("redis.user", ""),
		Password: env.String("redis.passwd", ""),
		DB:       env.Int("redis.db", 0),
	}
	cfg.LazyAuth = cfg.Password != ""
	return cfg
}
