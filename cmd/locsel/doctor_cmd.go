package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/locsel/internal/config"
	"github.com/raphi011/locsel/internal/doctor"
	"github.com/raphi011/locsel/internal/output"
)

func newDoctorCmd() *cobra.Command {
	var (
		fix    bool
		probes int
	)

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose configuration and service reachability",
		GroupID: GroupService,
		Args:    cobra.NoArgs,
		Long: `Diagnose configuration and directory service reachability.

Checks:
- Base URL resolves from the config, environment and flags
- History file is readable
- Countries can be listed
- States can be listed for the first few countries (probed concurrently)

A corrupt history file is moved aside with --fix.`,
		Example: `  locsel doctor
  locsel doctor --env test
  locsel doctor --base-url http://localhost:8080 --style query
  locsel doctor --fix`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)

			opts := doctor.Options{
				HistoryPath: cfg.GetHistoryPath(),
				Style:       cfg.Directory.Style,
				Probes:      probes,
			}
			client, err := newClient(ctx)
			if err != nil {
				opts.ConfigErr = err
			} else {
				opts.Fetcher = client
				opts.BaseURL = client.Endpoints().Base
			}

			return doctor.Run(ctx, output.FromContext(ctx), opts, fix)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Repair fixable issues")
	cmd.Flags().IntVar(&probes, "probes", doctor.DefaultProbes, "Number of countries whose states are probed")

	return cmd
}
