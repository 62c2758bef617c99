package redis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/accessorkit/logger"
)

// poolLogger receives go-redis internal messages (pool dial failures and
// the like) and forwards them to the accessor logger. go-redis only keeps
// one process-wide logger, so the most recently created client wins.
type poolLogger struct {
	target atomic.Pointer[logger.Logger]
}

func (p *poolLogger) Printf(_ context.Context, format string, v ...interface{}) {
	l := p.target.Load()
	if l == nil {
		return
	}
	l.Warn("Redis driver message", logger.Fields(
		"message", strings.TrimSpace(fmt.Sprintf(format, v...)),
	))
}

var (
	driverLogger     = &poolLogger{}
	driverLoggerOnce sync.Once
)

func routeDriverLogs(log *logger.Logger) {
	driverLogger.target.Store(log)
	driverLoggerOnce.Do(func() { goredis.SetLogger(driverLogger) })
}
