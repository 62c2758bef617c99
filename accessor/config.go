package accessor

import (
	"fmt"

	"github.com/kbukum/accessorkit/config"
	"github.com/kbukum/accessorkit/database"
	"github.com/kbukum/accessorkit/httpclient"
	"github.com/kbukum/accessorkit/observability"
	"github.com/kbukum/accessorkit/redis"
)

// Config aggregates the service settings and one section per accessor.
// A section with enabled=false is not registered.
//
//	name: billing
//	http:
//	  enabled: true
//	  concurrency: 64
//	redis:
//	  enabled: true
//	  host: cache.internal
//	  lazy_auth: true
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	HTTP          httpclient.Config    `yaml:"http" mapstructure:"http"`
	MySQL         database.Config      `yaml:"mysql" mapstructure:"mysql"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
}

// ApplyDefaults fills in defaults for every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	c.MySQL.ApplyDefaults()
	c.Redis.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := c.MySQL.Validate(); err != nil {
		return fmt.Errorf("mysql: %w", err)
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// LoadConfig reads the configuration for serviceName from its config file,
// .env file and environment, then applies defaults and validates it.
func LoadConfig(serviceName string, opts ...config.LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}
