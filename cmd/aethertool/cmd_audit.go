package main

import (
	"github.com/spf13/cobra"

	"github.com/johnwards/aethertool/internal/audit"
)

func (a *app) newAuditCmd() *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check the project tree against structure and source rules",
		Long: `Check the project tree against structure and source rules.

Exits 0 when the tree is compliant and 1 when a required directory is
missing or a forbidden pattern is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := audit.DefaultRules()
			if rulesPath != "" {
				var err error
				if rules, err = audit.LoadRules(rulesPath); err != nil {
					return err
				}
			}

			rep, err := audit.Run(a.cfg.AuditRoot, rules, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			a.log.Debug("audit finished",
				"root", a.cfg.AuditRoot,
				"missing_dirs", len(rep.MissingDirs),
				"violations", len(rep.Violations),
			)
			if code := rep.ExitCode(); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&a.cfg.AuditRoot, "root", a.cfg.AuditRoot, "project root to audit")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rules file (defaults to the built-in rules)")
	return cmd
}
