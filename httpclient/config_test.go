package httpclient

import (
	"testing"
	"time"

	"github.com/kbukum/accessorkit/fanout"
	"github.com/kbukum/accessorkit/version"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Timeout != 60*time.Second {
		t.Errorf("expected 60s timeout, got %v", cfg.Timeout)
	}
	if cfg.Concurrency != fanout.DefaultLimit {
		t.Errorf("expected concurrency %d, got %d", fanout.DefaultLimit, cfg.Concurrency)
	}
	if cfg.Ordering != "ordered" {
		t.Errorf("expected ordered, got %q", cfg.Ordering)
	}
	if cfg.UserAgent != version.UserAgent() {
		t.Errorf("unexpected user agent %q", cfg.UserAgent)
	}
	if cfg.MaxIdleConnsPerHost != cfg.Concurrency {
		t.Errorf("expected idle pool to match concurrency, got %d", cfg.MaxIdleConnsPerHost)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"unordered", Config{Ordering: "unordered"}, false},
		{"bad ordering", Config{Ordering: "random"}, true},
		{"negative concurrency", Config{Concurrency: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if tt.cfg.Concurrency >= 0 {
				cfg.ApplyDefaults()
			}
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
