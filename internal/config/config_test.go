package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/johnwards/aethertool/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"AETHER_DB", "AETHER_MIGRATION", "AETHER_VERIFY_TABLE", "AETHER_BASE_URL",
		"AETHER_AUDIT_ROOT", "AETHER_LOG", "AETHER_HTTP_TIMEOUT",
	} {
		// Setenv registers the restore; Unsetenv makes the key absent.
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DBPath != "backend/aether.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "backend/aether.db")
	}
	if cfg.MigrationPath != "backend/migrations/001_create_blocks.sql" {
		t.Errorf("MigrationPath = %q, want %q", cfg.MigrationPath, "backend/migrations/001_create_blocks.sql")
	}
	if cfg.VerifyTable != "blocks" {
		t.Errorf("VerifyTable = %q, want %q", cfg.VerifyTable, "blocks")
	}
	if cfg.BaseURL != "http://localhost:3000" {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, "http://localhost:3000")
	}
	if cfg.AuditRoot != "." {
		t.Errorf("AuditRoot = %q, want %q", cfg.AuditRoot, ".")
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", cfg.HTTPTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("AETHER_DB", "/tmp/test.db")
	t.Setenv("AETHER_MIGRATION", "/tmp/002.sql")
	t.Setenv("AETHER_VERIFY_TABLE", "layout_templates")
	t.Setenv("AETHER_BASE_URL", "http://example.test:8080")
	t.Setenv("AETHER_HTTP_TIMEOUT", "5s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/tmp/test.db")
	}
	if cfg.MigrationPath != "/tmp/002.sql" {
		t.Errorf("MigrationPath = %q, want %q", cfg.MigrationPath, "/tmp/002.sql")
	}
	if cfg.VerifyTable != "layout_templates" {
		t.Errorf("VerifyTable = %q, want %q", cfg.VerifyTable, "layout_templates")
	}
	if cfg.BaseURL != "http://example.test:8080" {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, "http://example.test:8080")
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v, want 5s", cfg.HTTPTimeout)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("AETHER_HTTP_TIMEOUT", "soon")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for malformed AETHER_HTTP_TIMEOUT")
	}
}
