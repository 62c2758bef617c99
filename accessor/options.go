package accessor

import (
	"time"

	"github.com/kbukum/accessorkit/database"
	"github.com/kbukum/accessorkit/logger"
)

// Option configures a Kit during creation.
type Option func(*kitOptions)

type kitOptions struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
	databaseOpts    []database.Option
}

func resolveOptions(opts []Option) *kitOptions {
	o := &kitOptions{gracefulTimeout: 15 * time.Second}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger. If not set, one is built from the config's
// logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *kitOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout bounds Stop.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *kitOptions) {
		o.gracefulTimeout = d
	}
}

// WithDatabaseOptions passes options to the MySQL accessor, e.g. a
// replacement dialector.
func WithDatabaseOptions(opts ...database.Option) Option {
	return func(o *kitOptions) {
		o.databaseOpts = append(o.databaseOpts, opts...)
	}
}
