package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/locsel/internal/directory"
	"github.com/raphi011/locsel/internal/log"
	"github.com/raphi011/locsel/internal/output"
	"github.com/raphi011/locsel/internal/ui/progress"
)

func newListCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List countries, states or cities",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Long: `List countries, states or cities without the picker.

Names are printed one per line, or as a JSON array with --json.`,
		Example: `  locsel list countries
  locsel list states India
  locsel list cities India Maharashtra --json`,
	}

	cmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print names as a JSON array")

	cmd.AddCommand(&cobra.Command{
		Use:   "countries",
		Short: "List all countries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, jsonOut, "Fetching countries", func(ctx context.Context, c *directory.Client) ([]string, error) {
				return c.Countries(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "states <country>",
		Short: "List the states of a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, jsonOut, "Fetching states for "+args[0], func(ctx context.Context, c *directory.Client) ([]string, error) {
				return c.States(ctx, args[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cities <country> <state>",
		Short: "List the cities of a state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, jsonOut, fmt.Sprintf("Fetching cities for %s, %s", args[1], args[0]), func(ctx context.Context, c *directory.Client) ([]string, error) {
				return c.Cities(ctx, args[0], args[1])
			})
		},
	})

	return cmd
}

func runList(cmd *cobra.Command, jsonOut bool, message string, fetch func(context.Context, *directory.Client) ([]string, error)) error {
	ctx := cmd.Context()

	client, err := newClient(ctx)
	if err != nil {
		return err
	}

	// The request log shares stderr with the spinner.
	var spin *os.File
	if !log.FromContext(ctx).IsVerbose() {
		spin = os.Stderr
	}

	var names []string
	err = progress.Run(ctx, spin, message, func(ctx context.Context) error {
		var err error
		names, err = fetch(ctx, client)
		return err
	})
	if err != nil {
		return err
	}

	out := output.FromContext(ctx)
	if jsonOut {
		return out.JSON(names)
	}
	out.Lines(names)
	return nil
}
