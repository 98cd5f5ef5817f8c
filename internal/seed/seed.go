// Package seed writes reference and demonstration data into the backend
// database. Every seeder is safe to run repeatedly.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/johnwards/aethertool/internal/store"
)

// Options configures a full seed run.
type Options struct {
	Admin AdminOptions
	Demo  DemoOptions
	// SkipDemo leaves the math demo out of All.
	SkipDemo bool
}

// Summary reports what All did.
type Summary struct {
	Templates    *TemplateReport
	AdminCreated bool
	SystemKB     bool
	Demo         *DemoResult
}

// Reference inserts the data every installation needs: the administrator
// account, the layout templates and the system knowledge base. It runs in a
// single transaction and leaves existing rows untouched. Call order
// matters: the system knowledge base is owned by the administrator.
func Reference(ctx context.Context, db *sql.DB, opts AdminOptions, out io.Writer) (*Summary, error) {
	if out == nil {
		out = io.Discard
	}
	templates, err := DefaultTemplates()
	if err != nil {
		return nil, err
	}

	sum := &Summary{}
	err = store.WithTx(ctx, db, func(s *store.Store) error {
		admin, created, err := AdminUser(ctx, s.Users, opts, out)
		if err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		sum.AdminCreated = created

		sum.Templates, err = Templates(ctx, s.Templates, templates, out)
		if err != nil {
			return fmt.Errorf("seed templates: %w", err)
		}

		_, sum.SystemKB, err = SystemKnowledgeBase(ctx, s.KnowledgeBases, admin, out)
		if err != nil {
			return fmt.Errorf("seed system knowledge base: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// All runs Reference followed by Demo unless opts.SkipDemo is set.
func All(ctx context.Context, db *sql.DB, opts Options, out io.Writer) (*Summary, error) {
	sum, err := Reference(ctx, db, opts.Admin, out)
	if err != nil {
		return nil, err
	}
	if opts.SkipDemo {
		return sum, nil
	}
	sum.Demo, err = Demo(ctx, db, opts.Demo, out)
	if err != nil {
		return nil, fmt.Errorf("seed demo: %w", err)
	}
	return sum, nil
}
