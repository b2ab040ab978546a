package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/locsel/internal/config"
	"github.com/raphi011/locsel/internal/log"
	"github.com/raphi011/locsel/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage locsel configuration.

Config file: ~/.config/locsel/config.toml
Environment overrides: LOCSEL_ENV, LOCSEL_BASE_URL, LOCSEL_STYLE, LOCSEL_THEME`,
		Example: `  locsel config init     # Create default config
  locsel config show     # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  locsel config init      # Create ~/.config/locsel/config.toml
  locsel config init -f   # Overwrite existing config
  locsel config init -s   # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if stdout {
				output.FromContext(ctx).Print(config.DefaultConfig())
				return nil
			}
			path, err := config.Init(force)
			if err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

// effectiveConfig is the resolved configuration shown by config show.
type effectiveConfig struct {
	Environment  string `json:"environment"`
	BaseURL      string `json:"base_url"`
	Style        string `json:"style"`
	Timeout      string `json:"timeout"`
	Retries      int    `json:"retries"`
	Theme        string `json:"theme"`
	HistoryFile  string `json:"history_file"`
	HistoryLimit int    `json:"history_limit"`
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show effective configuration after environment variables and
global flags are applied.`,
		Example: `  locsel config show
  locsel --env test config show --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			base, err := cfg.BaseURL()
			if err != nil {
				return err
			}
			theme := cfg.Theme.Name
			if theme == "" {
				theme = "default"
			}
			eff := effectiveConfig{
				Environment:  cfg.Environment,
				BaseURL:      base,
				Style:        cfg.Directory.Style,
				Timeout:      cfg.Directory.RequestTimeout().String(),
				Retries:      cfg.Directory.RetryCount(),
				Theme:        theme,
				HistoryFile:  cfg.GetHistoryPath(),
				HistoryLimit: cfg.HistoryLimit,
			}

			if jsonOutput {
				return out.JSON(eff)
			}

			out.Printf("environment: %s\n", eff.Environment)
			out.Printf("directory.base_url: %s\n", eff.BaseURL)
			out.Printf("directory.style: %s\n", eff.Style)
			out.Printf("directory.timeout: %s\n", eff.Timeout)
			out.Printf("directory.retries: %d\n", eff.Retries)
			out.Printf("theme.name: %s\n", eff.Theme)
			out.Printf("history_file: %s\n", eff.HistoryFile)
			out.Printf("history_limit: %d\n", eff.HistoryLimit)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
