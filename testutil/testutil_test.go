package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/accessorkit/component"
)

type fakeComponent struct {
	name     string
	startErr error
	stopErr  error
	log      *[]string
	state    map[string]string
}

func newFake(name string, log *[]string) *fakeComponent {
	return &fakeComponent{name: name, log: log, state: map[string]string{}}
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(context.Context) error {
	*f.log = append(*f.log, "start "+f.name)
	return f.startErr
}

func (f *fakeComponent) Stop(context.Context) error {
	*f.log = append(*f.log, "stop "+f.name)
	return f.stopErr
}

func (f *fakeComponent) Health(context.Context) component.Health {
	return component.Health{Name: f.name, Status: component.StatusHealthy}
}

func (f *fakeComponent) Reset(context.Context) error {
	*f.log = append(*f.log, "reset "+f.name)
	f.state = map[string]string{}
	return nil
}

func (f *fakeComponent) Snapshot(context.Context) (interface{}, error) {
	cp := make(map[string]string, len(f.state))
	for k, v := range f.state {
		cp[k] = v
	}
	return cp, nil
}

func (f *fakeComponent) Restore(_ context.Context, snap interface{}) error {
	m, ok := snap.(map[string]string)
	if !ok {
		return errors.New("bad snapshot")
	}
	f.state = m
	return nil
}

func TestSetup(t *testing.T) {
	var log []string
	c := newFake("a", &log)

	cleanup, err := Setup(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if err := cleanup(); err != nil {
		t.Fatal(err)
	}
	if strings.Join(log, ",") != "start a,stop a" {
		t.Errorf("unexpected calls %v", log)
	}

	c.startErr = errors.New("no")
	if _, err := Setup(context.Background(), c); err == nil {
		t.Error("expected start error")
	}
}

func TestTHelper(t *testing.T) {
	var log []string
	c := newFake("a", &log)

	t.Run("inner", func(t *testing.T) {
		h := T(t)
		h.Setup(c)
		c.state["k"] = "v"
		snap := h.Snapshot(c)
		h.Reset(c)
		if len(c.state) != 0 {
			t.Error("expected reset state")
		}
		h.Restore(c, snap)
		if c.state["k"] != "v" {
			t.Error("expected restored state")
		}
	})

	if strings.Join(log, ",") != "start a,reset a,stop a" {
		t.Errorf("expected cleanup at end of subtest, got %v", log)
	}
}

func TestManager(t *testing.T) {
	var log []string
	m := NewManager(context.Background())
	m.Add(newFake("a", &log)).Add(newFake("b", &log))

	if err := m.StartAll(); err != nil {
		t.Fatal(err)
	}
	if err := m.ResetAll(); err != nil {
		t.Fatal(err)
	}
	if err := m.StopAll(); err != nil {
		t.Fatal(err)
	}
	want := "start a,start b,reset a,reset b,stop b,stop a"
	if got := strings.Join(log, ","); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if m.Get("b") == nil || m.Get("zzz") != nil {
		t.Error("unexpected Get result")
	}
}

func TestManager_StopAllJoinsErrors(t *testing.T) {
	var log []string
	a, b := newFake("a", &log), newFake("b", &log)
	a.stopErr = errors.New("a failed")
	b.stopErr = errors.New("b failed")

	m := NewManager(context.Background()).Add(a).Add(b)
	err := m.StopAll()
	if err == nil || !strings.Contains(err.Error(), "a failed") || !strings.Contains(err.Error(), "b failed") {
		t.Fatalf("expected both failures, got %v", err)
	}
	if strings.Join(log, ",") != "stop b,stop a" {
		t.Errorf("expected every component stopped, got %v", log)
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultEnvFile)
	content := "redis:\n  host: 127.0.0.1\n  port: 6380\n  passwd: pw\nmysql:\n  port: notanumber\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	env, err := LoadEnv(path)
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if env.String("redis.host", "") != "127.0.0.1" {
		t.Errorf("unexpected host %q", env["redis.host"])
	}
	if env.Int("redis.port", 0) != 6380 {
		t.Errorf("unexpected port %d", env.Int("redis.port", 0))
	}
	if env.Int("redis.db", 7) != 7 {
		t.Error("expected default for missing key")
	}
	if env.Int("mysql.port", 3308) != 3308 {
		t.Error("expected default for malformed int")
	}
	if !env.Has("redis.host", "redis.passwd") || env.Has("mysql.host") {
		t.Error("unexpected Has result")
	}
}

func TestFindEnv_FromVariable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.json")
	if err := os.WriteFile(path, []byte(`{"redis": {"db": 3}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvFileVariable, path)

	env := FindEnv(t)
	if env.Int("redis.db", 0) != 3 {
		t.Errorf("expected db 3, got %v", env)
	}
}

func TestEnv_RequireSkips(t *testing.T) {
	env := Env{"redis.host": "h"}
	skipped := true
	t.Run("inner", func(t *testing.T) {
		env.Require(t, "redis.host", "redis.port")
		skipped = false
	})
	if !skipped {
		t.Error("expected test to be skipped when a key is missing")
	}
}
