// Command aethertool is the operator toolbox for the Aether backend: schema
// migration, reference and demo data seeding, the project auditor and HTTP
// smoke scenarios.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/johnwards/aethertool/internal/config"
	"github.com/johnwards/aethertool/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// exitError ends the process with code after the command has already
// reported the failure.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

type app struct {
	cfg     config.Config
	verbose bool
	log     *logger.Logger
	stdout  io.Writer
	stderr  io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	a := &app{cfg: cfg, log: logger.Nop(), stdout: stdout, stderr: stderr}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = root.ExecuteContext(ctx)
	a.log.Sync()

	var ee *exitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ee):
		return ee.code
	default:
		a.log.Error("command failed", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aethertool",
		Short:         "Operator tooling for the Aether backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log = logger.New(a.stderr, a.cfg.LogMode, a.verbose)
			a.log.Debug("configuration loaded",
				"db", a.cfg.DBPath,
				"migration", a.cfg.MigrationPath,
				"base_url", a.cfg.BaseURL,
			)
			return nil
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfg.DBPath, "db", a.cfg.DBPath, "path to the backend SQLite database")
	f.StringVar(&a.cfg.BaseURL, "base-url", a.cfg.BaseURL, "backend base URL for smoke scenarios")
	f.StringVar(&a.cfg.LogMode, "log", a.cfg.LogMode, "log format: dev or prod")
	f.DurationVar(&a.cfg.HTTPTimeout, "timeout", a.cfg.HTTPTimeout, "HTTP client timeout")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.newMigrateCmd(),
		a.newBootstrapCmd(),
		a.newSeedCmd(),
		a.newAuditCmd(),
		a.newSmokeCmd(),
	)
	return root
}
