package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johnwards/aethertool/internal/database"
	"github.com/johnwards/aethertool/internal/id"
	"github.com/johnwards/aethertool/internal/seed"
	"github.com/johnwards/aethertool/internal/store"
)

type seedFlags struct {
	owner         string
	ownerUsername string
	ownerPassword string
	adminPassword string
	skipDemo      bool
}

func (f *seedFlags) demoOptions() (seed.DemoOptions, error) {
	opts := seed.DemoOptions{
		OwnerUsername: f.ownerUsername,
		OwnerPassword: f.ownerPassword,
	}
	if f.owner != "" {
		ownerID, err := id.Parse(f.owner)
		if err != nil {
			return opts, fmt.Errorf("--owner: %w", err)
		}
		opts.OwnerID = ownerID
	}
	return opts, nil
}

func (a *app) newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write reference or demonstration data",
		Long: `Write reference or demonstration data into an existing database.

Available subcommands:
  templates - insert missing layout templates
  reference - admin account, layout templates and the system knowledge base
  demo      - replace the math demo knowledge base
  all       - reference followed by demo`,
	}

	var flags seedFlags
	addDemoFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&flags.owner, "owner", "", "ID of an existing user to own the demo data")
		c.Flags().StringVar(&flags.ownerUsername, "owner-username", seed.DefaultDemoUsername, "username of the demo owner, created when missing")
		c.Flags().StringVar(&flags.ownerPassword, "owner-password", "", "password for a newly created demo owner")
	}
	addAdminFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&flags.adminPassword, "admin-password", "", "password for a newly created admin account")
	}

	templatesCmd := &cobra.Command{
		Use:   "templates",
		Short: "Insert missing layout templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(func(db *sql.DB) error {
				templates, err := seed.DefaultTemplates()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Seeding layout templates...")
				rep, err := seed.Templates(cmd.Context(), store.New(db).Templates, templates, out)
				if err != nil {
					return err
				}
				a.log.Info("templates seeded", "inserted", rep.Inserted, "skipped", rep.Skipped, "installed", len(rep.Installed))
				fmt.Fprintf(out, "Done: %d inserted, %d skipped.\n", rep.Inserted, rep.Skipped)
				return nil
			})
		},
	}

	referenceCmd := &cobra.Command{
		Use:   "reference",
		Short: "Seed the admin account, layout templates and system knowledge base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(func(db *sql.DB) error {
				sum, err := seed.Reference(cmd.Context(), db, seed.AdminOptions{Password: flags.adminPassword}, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				a.logSummary(sum)
				return nil
			})
		},
	}
	addAdminFlags(referenceCmd)

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Replace the math demo knowledge base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.demoOptions()
			if err != nil {
				return err
			}
			return a.withDB(func(db *sql.DB) error {
				res, err := seed.Demo(cmd.Context(), db, opts, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				a.log.Info("demo seeded",
					"knowledge_base", res.KnowledgeBaseID,
					"document", res.DocumentID,
					"owner", res.OwnerID,
					"blocks", len(res.Blocks),
				)
				return nil
			})
		},
	}
	addDemoFlags(demoCmd)

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Seed reference data followed by the demo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.demoOptions()
			if err != nil {
				return err
			}
			return a.withDB(func(db *sql.DB) error {
				sum, err := seed.All(cmd.Context(), db, seed.Options{
					Admin:    seed.AdminOptions{Password: flags.adminPassword},
					Demo:     opts,
					SkipDemo: flags.skipDemo,
				}, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				a.logSummary(sum)
				return nil
			})
		},
	}
	addDemoFlags(allCmd)
	addAdminFlags(allCmd)
	allCmd.Flags().BoolVar(&flags.skipDemo, "skip-demo", false, "only seed reference data")

	cmd.AddCommand(templatesCmd, referenceCmd, demoCmd, allCmd)
	return cmd
}

// withDB opens the configured database, which must already exist, and
// closes it after fn returns.
func (a *app) withDB(fn func(db *sql.DB) error) error {
	if _, err := os.Stat(a.cfg.DBPath); err != nil {
		return fmt.Errorf("database not found at %s", a.cfg.DBPath)
	}
	db, err := database.Open(a.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()
	return fn(db)
}

func (a *app) logSummary(sum *seed.Summary) {
	kv := []any{"admin_created", sum.AdminCreated, "system_kb_created", sum.SystemKB}
	if sum.Templates != nil {
		kv = append(kv, "templates_inserted", sum.Templates.Inserted, "templates_skipped", sum.Templates.Skipped)
	}
	if sum.Demo != nil {
		kv = append(kv, "demo_knowledge_base", sum.Demo.KnowledgeBaseID)
	}
	a.log.Info("seed complete", kv...)
}
