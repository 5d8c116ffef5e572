package db

import (
	"path/filepath"
	"strings"
	"testing"
)

func userVersion(t *testing.T, path string) int {
	t.Helper()
	conn, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()
	var v int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		t.Fatalf("user_version: %v", err)
	}
	return v
}

func TestInitDB_MigratesAndIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	if v := userVersion(t, path); v != SchemaVersion() {
		t.Fatalf("user_version = %d, want %d", v, SchemaVersion())
	}
	// reopening must not re-run or fail
	if v := userVersion(t, path); v != SchemaVersion() {
		t.Fatalf("user_version after reopen = %d", v)
	}

	conn, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()
	var n int
	err = conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name LIKE 'idx_render_runs_%'`).Scan(&n)
	if err != nil {
		t.Fatalf("count indexes: %v", err)
	}
	if n != 2 {
		t.Fatalf("indexes = %d, want 2", n)
	}

	if _, err := conn.Exec(`INSERT INTO operators (username, password_hash, created_at) VALUES ('op', 'h', '2025-01-01 00:00:00')`); err != nil {
		t.Fatalf("operators table: %v", err)
	}
	if _, err := conn.Exec(`INSERT INTO operators (username, password_hash, created_at) VALUES ('op', 'h2', '2025-01-01 00:00:00')`); err == nil {
		t.Fatalf("expected duplicate username to be rejected")
	}
}

func TestInitDB_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	conn, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if _, err := conn.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = conn.Close()

	if _, err := InitDB(path); err == nil || !strings.Contains(err.Error(), "newer than this build") {
		t.Fatalf("expected newer schema error, got %v", err)
	}
}
