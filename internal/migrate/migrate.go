// Package migrate applies a single SQL script to an existing backend
// database and checks that an expected table is present afterwards.
//
// The outcome is reported as one of three classes so the caller can decide
// how loud to be:
//
//   - *PreconditionError: an input file is missing; nothing was opened.
//   - *ExecutionError: connecting, reading or executing failed. Scripts
//     without their own BEGIN/COMMIT run in a transaction that was rolled
//     back.
//   - ErrUnverified: the script committed but the verification table is
//     absent. The Result is still returned.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/johnwards/aethertool/internal/database"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// ErrUnverified is returned when the script ran but the verification table
// could not be found.
var ErrUnverified = errors.New("verification table not found after migration")

// Options configures a run. VerifyTable defaults to "blocks".
type Options struct {
	DBPath      string
	ScriptPath  string
	VerifyTable string
}

// Result describes a completed run.
type Result struct {
	Table      string
	Statements int
	Verified   bool
	// ScriptManagedTx is set when the script carries its own transaction
	// control and was executed without an enclosing transaction.
	ScriptManagedTx bool
}

// PreconditionError reports a missing input file.
type PreconditionError struct {
	Kind string // "database" or "migration script"
	Path string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s not found at %s", e.Kind, e.Path)
}

// ExecutionError reports a failure while talking to the database.
type ExecutionError struct {
	Stage string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("migration failed during %s: %v", e.Stage, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Run executes the script at opts.ScriptPath against the database at
// opts.DBPath, then verifies opts.VerifyTable. The script runs as a single
// transaction unless it issues BEGIN/COMMIT itself, in which case it runs
// as written on one connection.
func Run(ctx context.Context, opts Options) (Result, error) {
	table := opts.VerifyTable
	if table == "" {
		table = "blocks"
	}
	res := Result{Table: table}

	if err := requireFile("database", opts.DBPath); err != nil {
		return res, err
	}
	if err := requireFile("migration script", opts.ScriptPath); err != nil {
		return res, err
	}

	raw, err := os.ReadFile(opts.ScriptPath)
	if err != nil {
		return res, &ExecutionError{Stage: "read script", Err: err}
	}
	script := ExtractUp(string(raw))
	res.Statements = CountStatements(script)
	res.ScriptManagedTx = managesTransaction(script)

	db, err := database.Open(opts.DBPath)
	if err != nil {
		return res, &ExecutionError{Stage: "connect", Err: err}
	}
	defer func() { _ = db.Close() }()

	if strings.TrimSpace(script) != "" {
		if res.ScriptManagedTx {
			err = execOwnTx(ctx, db, script)
		} else {
			err = execInTx(ctx, db, script)
		}
		if err != nil {
			return res, err
		}
	}

	ok, err := database.TableExists(ctx, db, table)
	if err != nil {
		return res, &ExecutionError{Stage: "verify", Err: err}
	}
	res.Verified = ok
	if !ok {
		return res, fmt.Errorf("table %q: %w", table, ErrUnverified)
	}
	return res, nil
}

func execInTx(ctx context.Context, db *sql.DB, script string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &ExecutionError{Stage: "begin", Err: err}
	}
	if _, err := tx.ExecContext(ctx, script); err != nil {
		_ = tx.Rollback()
		return &ExecutionError{Stage: "execute", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &ExecutionError{Stage: "commit", Err: err}
	}
	return nil
}

// execOwnTx runs a script that opens and closes its own transaction. A
// transaction the script left open after a failure is rolled back.
func execOwnTx(ctx context.Context, db *sql.DB, script string) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return &ExecutionError{Stage: "connect", Err: err}
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.ExecContext(ctx, script); err != nil {
		_, _ = conn.ExecContext(ctx, "ROLLBACK")
		return &ExecutionError{Stage: "execute", Err: err}
	}
	return nil
}

func requireFile(kind, path string) error {
	if path == "" {
		return &PreconditionError{Kind: kind, Path: "(empty path)"}
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return &PreconditionError{Kind: kind, Path: path}
	}
	return nil
}

// ExtractUp returns the SQL between "-- +migrate Up" and "-- +migrate Down".
// Scripts without the Up marker are returned unchanged.
func ExtractUp(content string) string {
	upIdx := strings.Index(content, upMarker)
	if upIdx == -1 {
		return content
	}
	body := content[upIdx+len(upMarker):]
	if downIdx := strings.Index(body, downMarker); downIdx != -1 {
		body = body[:downIdx]
	}
	return body
}

// CountStatements gives a rough count of the statements in script for
// reporting. Semicolons inside string literals are not special-cased.
func CountStatements(script string) int {
	return len(statements(script))
}

// statements splits script on semicolons and drops parts holding only
// comments or whitespace. Trigger bodies come back in pieces.
func statements(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";") {
		if hasSQL(part) {
			out = append(out, part)
		}
	}
	return out
}

// managesTransaction reports whether script has top-level BEGIN, COMMIT,
// END or ROLLBACK statements. BEGIN and END inside CREATE TRIGGER do not
// count.
func managesTransaction(script string) bool {
	inTrigger := false
	for _, stmt := range statements(script) {
		first := firstKeyword(stmt)
		if inTrigger {
			if first == "END" {
				inTrigger = false
			}
			continue
		}
		switch first {
		case "BEGIN", "COMMIT", "END", "ROLLBACK":
			return true
		case "CREATE":
			if slices.Contains(strings.Fields(strings.ToUpper(stmt)), "TRIGGER") {
				inTrigger = true
			}
		}
	}
	return false
}

func firstKeyword(stmt string) string {
	for _, line := range strings.Split(stmt, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		if fields := strings.Fields(line); len(fields) > 0 {
			return strings.ToUpper(fields[0])
		}
	}
	return ""
}

func hasSQL(part string) bool {
	for _, line := range strings.Split(part, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return true
		}
	}
	return false
}
