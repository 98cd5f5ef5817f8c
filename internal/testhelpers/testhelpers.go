package testhelpers

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/johnwards/aethertool/internal/database"
)

// NewTestDB opens a private in-memory database through database.Open, so
// tests see the same pragmas as the CLI. It is closed by t.Cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openForTest(t, ":memory:")
}

func openForTest(t *testing.T, dsn string) *sql.DB {
	t.Helper()

	db, err := database.Open(dsn)
	if err != nil {
		t.Fatalf("open %s: %v", dsn, err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewMigratedDB returns an in-memory database with the full backend schema.
func NewMigratedDB(t *testing.T) *sql.DB {
	t.Helper()

	db := NewTestDB(t)
	if err := database.Bootstrap(context.Background(), db); err != nil {
		t.Fatalf("bootstrap test database: %v", err)
	}
	return db
}

// NewFileDB creates an empty database file in a temp directory and returns
// its path. No tables are created.
func NewFileDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "aether.db")
	db, err := database.Open(path)
	if err != nil {
		t.Fatalf("open file database: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping file database: %v", err)
	}
	_ = db.Close()
	return path
}

// WriteFile writes content to name under dir, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// CountRows runs a COUNT(*) query and returns the result.
func CountRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()

	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count rows %q: %v", query, err)
	}
	return n
}
