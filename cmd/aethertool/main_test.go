package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/aethertool/internal/audit"
	"github.com/johnwards/aethertool/internal/database"
	"github.com/johnwards/aethertool/internal/id"
	"github.com/johnwards/aethertool/internal/testhelpers"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func bootstrapped(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aether.db")
	code, out, errOut := runCLI(t, "--db", path, "bootstrap")
	require.Equal(t, 0, code, "stdout=%s stderr=%s", out, errOut)
	return path
}

func TestBootstrapAndSeedAll(t *testing.T) {
	path := bootstrapped(t)

	for range 2 {
		code, out, errOut := runCLI(t, "--db", path, "seed", "all")
		require.Equal(t, 0, code, "stdout=%s stderr=%s", out, errOut)
		assert.Contains(t, out, "KB ID for Curl (String):")
	}

	db, err := database.Open(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Equal(t, 7, testhelpers.CountRows(t, db, `SELECT COUNT(*) FROM layout_templates`))
	assert.Equal(t, 1, testhelpers.CountRows(t, db, `SELECT COUNT(*) FROM knowledge_bases WHERE title = 'Math Demo KB'`))
	assert.Equal(t, 4, testhelpers.CountRows(t, db, `SELECT COUNT(*) FROM blocks`))
}

func TestSeedRequiresExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	code, _, errOut := runCLI(t, "--db", path, "seed", "templates")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, path)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSeedDemoUnknownOwner(t *testing.T) {
	path := bootstrapped(t)

	code, _, errOut := runCLI(t, "--db", path, "seed", "demo", "--owner", id.New().String())
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "owner not found")

	code, _, _ = runCLI(t, "--db", path, "seed", "demo", "--owner", "not-a-uuid")
	assert.Equal(t, 1, code)
}

func TestMigrate(t *testing.T) {
	path := bootstrapped(t)
	script := testhelpers.WriteFile(t, t.TempDir(), "002_tags.sql", "CREATE TABLE tags (id BLOB PRIMARY KEY);")

	code, out, _ := runCLI(t, "--db", path, "migrate", "--script", script, "--verify-table", "tags")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `Verified: table "tags" exists.`)

	code, out, _ = runCLI(t, "--db", path, "migrate", "--script", script, "--verify-table", "nope")
	assert.Equal(t, 1, code, "re-running a non-idempotent script fails")
	assert.Contains(t, out, "Error:")
}

func TestMigrateUnverifiedIsWarning(t *testing.T) {
	path := bootstrapped(t)
	script := testhelpers.WriteFile(t, t.TempDir(), "noop.sql", "SELECT 1;")

	code, out, _ := runCLI(t, "--db", path, "migrate", "--script", script, "--verify-table", "missing_table")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `Warning: table "missing_table" not found after migration.`)
}

func TestMigrateMissingScript(t *testing.T) {
	path := bootstrapped(t)
	missing := filepath.Join(t.TempDir(), "001_create_blocks.sql")

	code, out, _ := runCLI(t, "--db", path, "migrate", "--script", missing)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, missing)
}

func TestAuditExitCodes(t *testing.T) {
	root := t.TempDir()

	code, out, _ := runCLI(t, "audit", "--root", root)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "AI/const")

	for _, d := range audit.DefaultRules().RequiredDirs {
		testhelpers.WriteFile(t, root, d+"/.keep", "")
	}
	code, out, _ = runCLI(t, "audit", "--root", root)
	assert.Equal(t, 0, code, out)
}

func TestSmokeTemplates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"renderer_id": "default"},
			{"renderer_id": "math_v3"},
		})
	}))
	defer srv.Close()

	code, out, _ := runCLI(t, "--base-url", srv.URL, "smoke", "templates")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Missing standard templates")
}

func TestSmokeUnknownScenario(t *testing.T) {
	code, _, errOut := runCLI(t, "smoke", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `unknown scenario "nope"`)
}
