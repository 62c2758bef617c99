package testutil

import (
	"context"
	"testing"

	"github.com/kbukum/accessorkit/component"
	"github.com/kbukum/accessorkit/database"
	"github.com/kbukum/accessorkit/logger"
	"github.com/kbukum/accessorkit/testutil"
)

const usersTable = "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)"

func countUsers(t *testing.T, db *database.DB) int64 {
	t.Helper()
	rows, err := db.ExecuteSQL(context.Background(), "SELECT COUNT(*) AS n FROM users")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	return rows[0]["n"].(int64)
}

func insertUser(t *testing.T, db *database.DB, name string) {
	t.Helper()
	if _, err := db.ExecuteSQL(context.Background(), "INSERT INTO users (name) VALUES ('"+name+"')"); err != nil {
		t.Fatalf("insert %s: %v", name, err)
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	ctx := context.Background()
	tc := NewComponent()

	if tc.Name() != "database-test" {
		t.Errorf("Name() = %q, want %q", tc.Name(), "database-test")
	}
	if tc.Health(ctx).Status != component.StatusUnhealthy {
		t.Error("expected unhealthy before Start")
	}
	if err := tc.Stop(ctx); err != nil {
		t.Errorf("Stop() before Start() failed: %v", err)
	}
	if err := tc.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := tc.Start(ctx); err == nil {
		t.Error("second Start() should fail")
	}
	if tc.Health(ctx).Status != component.StatusHealthy {
		t.Error("expected healthy after Start")
	}
	if err := tc.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if tc.DB() != nil {
		t.Error("expected no accessor after Stop")
	}
}

func TestComponent_Schema(t *testing.T) {
	tc := NewComponent().WithSchema(usersTable)
	testutil.T(t).Setup(tc)

	insertUser(t, tc.DB(), "alice")
	if n := countUsers(t, tc.DB()); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestComponent_BadSchema(t *testing.T) {
	tc := NewComponent().WithSchema("CREATE TABLE")
	if err := tc.Start(context.Background()); err == nil {
		t.Error("expected invalid schema to fail Start")
	}
}

func TestComponent_ResetSnapshotRestore(t *testing.T) {
	tc := NewComponent().WithSchema(usersTable)
	h := testutil.T(t)
	h.Setup(tc)
	db := tc.DB()

	insertUser(t, db, "alice")
	snap := h.Snapshot(tc)

	insertUser(t, db, "bob")
	if n := countUsers(t, db); n != 2 {
		t.Fatalf("count before restore = %d, want 2", n)
	}

	h.Restore(tc, snap)
	rows, err := db.ExecuteSQL(context.Background(), "SELECT name FROM users")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0]["name"] != "alice" {
		t.Errorf("unexpected rows after restore %v", rows)
	}

	h.Reset(tc)
	if n := countUsers(t, db); n != 0 {
		t.Errorf("count after reset = %d, want 0", n)
	}
}

func TestComponent_NotStarted(t *testing.T) {
	ctx := context.Background()
	tc := NewComponent()

	if err := tc.Reset(ctx); err == nil {
		t.Error("Reset() before Start() should fail")
	}
	if _, err := tc.Snapshot(ctx); err == nil {
		t.Error("Snapshot() before Start() should fail")
	}
	if err := tc.Restore(ctx, nil); err == nil {
		t.Error("Restore() before Start() should fail")
	}
}

func TestComponent_RestoreRejectsForeignSnapshot(t *testing.T) {
	tc := NewComponent()
	testutil.T(t).Setup(tc)
	if err := tc.Restore(context.Background(), "nope"); err == nil {
		t.Error("expected foreign snapshot to be rejected")
	}
}

func TestLiveConfig(t *testing.T) {
	env := testutil.Env{"mysql.host": "10.0.0.6", "mysql.passwd": "pw", "mysql.db": "app"}
	cfg := LiveConfig(t, env)
	if cfg.Host != "10.0.0.6" || cfg.Port != 3308 || cfg.User != "root" || cfg.Database != "app" || cfg.Password != "pw" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLiveServer(t *testing.T) {
	cfg := LiveConfig(t, testutil.FindEnv(t))

	db, err := database.New(cfg, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Open(ctx); err != nil {
		t.Fatalf("Open against live server: %v", err)
	}
	rows, err := db.ExecuteSQL(ctx, "SELECT 1 AS one")
	if err != nil || len(rows) != 1 {
		t.Fatalf("ExecuteSQL: %v %v", rows, err)
	}
}
