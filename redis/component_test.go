package redis

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/accessorkit/component"
	"github.com/kbukum/accessorkit/logger"
)

func TestComponent_Lifecycle(t *testing.T) {
	m := miniredis.RunT(t)
	comp, err := NewComponent(miniredisConfig(t, m), logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !comp.Client().IsOpen() {
		t.Fatal("expected client open after Start")
	}
	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %+v", h)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if comp.Client().IsOpen() {
		t.Error("expected client closed after Stop")
	}
}

func TestComponent_StartIsNonFatal(t *testing.T) {
	m := miniredis.RunT(t)
	cfg := miniredisConfig(t, m)
	m.Close()

	comp, err := NewComponent(cfg, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("expected Start to succeed with unreachable server, got %v", err)
	}
	h := comp.Health(context.Background())
	if h.Status != component.StatusUnhealthy || !strings.Contains(h.Message, "OPEN_FAILURE") {
		t.Errorf("expected unhealthy with open failure, got %+v", h)
	}
}

func TestComponent_Describe(t *testing.T) {
	comp, err := NewComponent(Config{Enabled: true, DB: 3, LazyAuth: true}, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	d := comp.Describe()
	if d.Type != "redis" || d.Port != 6380 {
		t.Errorf("unexpected description %+v", d)
	}
	if d.Details != "localhost:6380 db=3 pool=10 lazy-auth" {
		t.Errorf("unexpected details %q", d.Details)
	}
}

func TestNewComponent_InvalidConfig(t *testing.T) {
	if _, err := NewComponent(Config{Enabled: true, Port: 99999}, nil); err == nil {
		t.Error("expected config error")
	}
}
