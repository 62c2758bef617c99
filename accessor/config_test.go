package accessor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kbukum/accessorkit/config"
	"github.com/kbukum/accessorkit/fanout"
)

const sampleYAML = `
name: billing
environment: test
http:
  enabled: true
  timeout: 5s
  concurrency: 16
  ordering: unordered
mysql:
  enabled: true
  host: db.internal
  database: billing
redis:
  enabled: true
  host: cache.internal
  password: secret
  lazy_auth: true
  db: 3
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "billing.yml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("billing", config.WithConfigFile(writeConfig(t, sampleYAML)), config.WithEnvFile("none"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Name != "billing" || cfg.Environment != "test" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if !cfg.HTTP.Enabled || cfg.HTTP.Timeout != 5*time.Second || cfg.HTTP.Concurrency != 16 || cfg.HTTP.Ordering != fanout.Unordered.String() {
		t.Errorf("unexpected http config %+v", cfg.HTTP)
	}
	if cfg.MySQL.Host != "db.internal" || cfg.MySQL.Port != 3308 || cfg.MySQL.User != "root" || cfg.MySQL.MaxOpenConns != 2 {
		t.Errorf("unexpected mysql config %+v", cfg.MySQL)
	}
	if cfg.Redis.Host != "cache.internal" || cfg.Redis.Port != 6380 || cfg.Redis.DB != 3 || !cfg.Redis.LazyAuth {
		t.Errorf("unexpected redis config %+v", cfg.Redis)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("BILLING_REDIS_PORT", "7001")
	cfg, err := LoadConfig("billing", config.WithConfigFile(writeConfig(t, sampleYAML)), config.WithEnvFile("none"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Redis.Port != 7001 {
		t.Errorf("expected env to override redis port, got %d", cfg.Redis.Port)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	body := sampleYAML + "\nobservability:\n  enabled: true\n  sample_rate: 2\n"
	if _, err := LoadConfig("billing", config.WithConfigFile(writeConfig(t, body)), config.WithEnvFile("none")); err == nil {
		t.Error("expected invalid sample rate to be rejected")
	}
}

func TestConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig("accessorkit-missing", config.WithConfigFile("/nonexistent/x.yml"), config.WithEnvFile("none"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "accessorkit-missing" || cfg.HTTP.Enabled || cfg.MySQL.Enabled || cfg.Redis.Enabled {
		t.Errorf("expected named config with every accessor disabled, got %+v", cfg)
	}
}
