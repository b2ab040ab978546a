package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/locsel/internal/config"
	"github.com/raphi011/locsel/internal/directory"
	"github.com/raphi011/locsel/internal/fixture"
	"github.com/raphi011/locsel/internal/log"
)

func newServeCmd() *cobra.Command {
	var (
		addr    string
		data    string
		objects bool
		delay   time.Duration
	)

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run a local directory service",
		GroupID: GroupService,
		Args:    cobra.NoArgs,
		Long: `Run a directory service backed by a YAML dataset.

The endpoint style follows --style (or directory.style in the config), so
the server matches what the client expects. Without --data a small
built-in dataset is served.

Point the client at it with --base-url or an [environments.local] entry.`,
		Example: `  locsel serve
  locsel serve --addr :9000 --style query
  locsel serve --data locations.yaml --delay 500ms
  locsel pick --base-url http://localhost:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)

			style, err := directory.ParseStyle(cfg.Directory.Style)
			if err != nil {
				return err
			}

			ds := fixture.Default()
			if data != "" {
				ds, err = fixture.LoadFile(data)
				if err != nil {
					return err
				}
			}

			srv := fixture.New(ds, fixture.Options{
				Style:   style,
				Objects: objects,
				Delay:   delay,
				Logger:  l,
			})

			l.Printf("Serving %d countries (%s style) on %s\n", len(ds.Countries), style, addr)
			if err := srv.Run(ctx, addr); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&data, "data", "", "YAML dataset file")
	cmd.Flags().BoolVar(&objects, "objects", false, `Serve items as {"name": ...} objects`)
	cmd.Flags().DurationVar(&delay, "delay", 0, "Delay every response")

	return cmd
}
