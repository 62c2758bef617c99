package testutil

import (
	"testing"

	"github.com/kbukum/accessorkit/database"
	"github.com/kbukum/accessorkit/testutil"
)

// LiveConfig builds an accessor config from the mysql.* keys of env and
// skips the test when mysql.host is absent.
func LiveConfig(tb testing.TB, env testutil.Env) database.Config {
	tb.Helper()
	env.Require(tb, "mysql.host")

	return database.Config{
		Enabled:  true,
		Host:     env.String("mysql.host", ""),
		Port:     env.Int("mysql.port", 3308),
		User:     env.String("mysql.user", "root"),
		Password: env.String("mysql.passwd", ""),
		Database: env.String("mysql.db", ""),
		Charset:  env.String("mysql.charset", "utf8"),
	}
}
