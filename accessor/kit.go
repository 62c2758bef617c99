package accessor

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/accessorkit/component"
	"github.com/kbukum/accessorkit/database"
	"github.com/kbukum/accessorkit/httpclient"
	"github.com/kbukum/accessorkit/logger"
	"github.com/kbukum/accessorkit/observability"
	"github.com/kbukum/accessorkit/redis"
	"github.com/kbukum/accessorkit/version"
)

// Kit owns the enabled accessors and their lifecycle.
//
//	cfg, _ := accessor.LoadConfig("billing")
//	kit, _ := accessor.New(cfg)
//	_ = kit.Start(ctx)
//	defer kit.Stop()
//	out := kit.HTTP().MultiGetDefault(ctx, urls, 0)
type Kit struct {
	Cfg        *Config
	Components *component.Registry
	Logger     *logger.Logger

	http  *httpclient.Component
	mysql *database.Component
	redis *redis.Component

	telemetry       *observability.Provider
	gracefulTimeout time.Duration
	startedAt       time.Time
	startup         time.Duration
}

// New validates cfg and registers one component per enabled accessor.
// Nothing is connected until Start.
func New(cfg *Config, opts ...Option) (*Kit, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)
	log := o.logger
	if log == nil {
		log = logger.New(&cfg.Logging, cfg.Name)
	}

	k := &Kit{
		Cfg:             cfg,
		Components:      component.NewRegistry(log),
		Logger:          log,
		gracefulTimeout: o.gracefulTimeout,
	}

	if cfg.HTTP.Enabled {
		k.http = httpclient.NewComponent(cfg.HTTP, log.WithComponent("http"))
		if err := k.Components.Register(k.http); err != nil {
			return nil, err
		}
	}
	if cfg.MySQL.Enabled {
		c, err := database.NewComponent(cfg.MySQL, log.WithComponent("mysql"), o.databaseOpts...)
		if err != nil {
			return nil, err
		}
		k.mysql = c
		if err := k.Components.Register(c); err != nil {
			return nil, err
		}
	}
	if cfg.Redis.Enabled {
		c, err := redis.NewComponent(cfg.Redis, log.WithComponent("redis"))
		if err != nil {
			return nil, err
		}
		k.redis = c
		if err := k.Components.Register(c); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// Start installs telemetry and starts every accessor. Backends that are
// unreachable do not fail Start; they are reported by Health.
func (k *Kit) Start(ctx context.Context) error {
	k.startedAt = time.Now()
	k.Logger.Info("Starting accessors", logger.Fields(
		"name", k.Cfg.Name,
		"version", version.Version,
	))

	p, err := observability.Setup(ctx, k.Cfg.Observability, k.Cfg.Name, version.Version, k.Cfg.Environment, k.Logger)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	k.telemetry = p

	if err := k.Components.StartAll(ctx); err != nil {
		_ = k.telemetry.Shutdown(ctx)
		return fmt.Errorf("failed to start components: %w", err)
	}

	if err := k.ReadyCheck(ctx); err != nil {
		k.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	k.startup = time.Since(k.startedAt)
	return nil
}

// Stop closes every accessor in reverse order and flushes telemetry within
// the graceful timeout.
func (k *Kit) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), k.gracefulTimeout)
	defer cancel()

	k.Logger.Info("Stopping accessors", logger.Fields("timeout", k.gracefulTimeout.String()))

	var stopErr error
	if err := k.Components.StopAll(ctx); err != nil {
		k.Logger.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		stopErr = err
	}
	if k.telemetry != nil {
		if err := k.telemetry.Shutdown(ctx); err != nil && stopErr == nil {
			stopErr = err
		}
		k.telemetry = nil
	}
	return stopErr
}

// Health returns the health of every registered accessor.
func (k *Kit) Health(ctx context.Context) []component.Health {
	return k.Components.HealthAll(ctx)
}

// ReadyCheck reports an error naming every unhealthy accessor.
func (k *Kit) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range k.Health(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// RunTask starts the accessors, runs task and stops them again. SIGINT
// and SIGTERM cancel the task's context.
func (k *Kit) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := k.Start(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			k.Logger.Info("Received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)
	if stopErr := k.Stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// HTTP returns the HTTP accessor, or nil when disabled or not started.
func (k *Kit) HTTP() *httpclient.Client {
	if k.http == nil {
		return nil
	}
	return k.http.Client()
}

// MySQL returns the MySQL accessor, or nil when disabled.
func (k *Kit) MySQL() *database.DB {
	if k.mysql == nil {
		return nil
	}
	return k.mysql.DB()
}

// Redis returns the Redis accessor, or nil when disabled.
func (k *Kit) Redis() *redis.Client {
	if k.redis == nil {
		return nil
	}
	return k.redis.Client()
}
