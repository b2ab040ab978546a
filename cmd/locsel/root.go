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

	"github.com/raphi011/locsel/internal/config"
	"github.com/raphi011/locsel/internal/log"
	"github.com/raphi011/locsel/internal/output"
	"github.com/raphi011/locsel/internal/ui/styles"
)

// Command group IDs for organizing help output
const (
	GroupCore    = "core"
	GroupService = "service"
	GroupConfig  = "config"
)

// errCancelled is returned when the user quits the picker. It exits 1
// without printing anything.
var errCancelled = errors.New("cancelled")

// globalFlags are the persistent flags shared by all commands.
type globalFlags struct {
	verbose bool
	quiet   bool
	env     string
	baseURL string
	style   string
}

// newRootCmd builds the command tree. cfg is the loaded config; flags
// override it per invocation.
func newRootCmd(cfg config.Config, stdout, stderr io.Writer) *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "locsel",
		Short: "Cascading country, state and city selector",
		Long: `locsel picks a location from a remote directory service.

Countries, states and cities are fetched on demand: choosing a country
loads its states, choosing a state loads its cities. Changing a choice
clears everything below it.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
				return nil
			}

			c := cfg
			if err := flags.apply(&c); err != nil {
				return err
			}
			styles.Init(c.Theme)

			ctx := cmd.Context()
			ctx = log.WithLogger(ctx, log.New(stderr, flags.verbose, flags.quiet))
			ctx = output.WithPrinter(ctx, stdout)
			ctx = config.WithConfig(ctx, &c)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log requests and retries to stderr")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress all log output")
	pf.StringVar(&flags.env, "env", "", "Environment selecting the base URL (production, test, or from config)")
	pf.StringVar(&flags.baseURL, "base-url", "", "Directory service base URL (overrides --env)")
	pf.StringVar(&flags.style, "style", "", "Endpoint style: path or query")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.Version = versionString()
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupService, Title: "Service Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	root.AddCommand(newPickCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newHistoryCmd())

	root.AddCommand(newServeCmd())
	root.AddCommand(newDoctorCmd())

	root.AddCommand(newConfigCmd())

	return root
}

// apply validates the global flags and writes them over cfg.
func (f *globalFlags) apply(cfg *config.Config) error {
	if f.env != "" {
		cfg.Environment = f.env
	}
	if f.baseURL != "" {
		if err := config.ValidateBaseURL(f.baseURL, "--base-url"); err != nil {
			return err
		}
		cfg.Directory.BaseURL = f.baseURL
	}
	if f.style != "" {
		if err := config.ValidateStyle(f.style); err != nil {
			return fmt.Errorf("--style: %w", err)
		}
		cfg.Directory.Style = f.style
	}
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd(cfg, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		cancel()
		if errors.Is(err, errCancelled) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'locsel -h' for help")
		os.Exit(1)
	}
}
