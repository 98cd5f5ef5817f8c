package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnwards/aethertool/internal/smoke"
)

func (a *app) newSmokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "smoke <scenario>",
		Short:     "Run an HTTP smoke scenario against a running backend",
		Long:      "Run an HTTP smoke scenario against a running backend.\n\nScenarios: " + strings.Join(smoke.Names(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: smoke.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, ok := smoke.Scenarios[args[0]]
			if !ok {
				return fmt.Errorf("unknown scenario %q (want one of %s)", args[0], strings.Join(smoke.Names(), ", "))
			}

			log := a.log.With("scenario", args[0], "base_url", a.cfg.BaseURL)
			log.Debug("starting scenario")
			err := scenario(cmd.Context(), smoke.Env{
				Client: smoke.NewClient(a.cfg.BaseURL, a.cfg.HTTPTimeout),
				Out:    cmd.OutOrStdout(),
			})
			if err != nil {
				return fmt.Errorf("scenario %s: %w", args[0], err)
			}
			log.Info("scenario finished")
			return nil
		},
	}
}
