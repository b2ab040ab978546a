package main

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/locsel/internal/config"
	"github.com/raphi011/locsel/internal/history"
	"github.com/raphi011/locsel/internal/log"
	"github.com/raphi011/locsel/internal/output"
	"github.com/raphi011/locsel/internal/selection"
	"github.com/raphi011/locsel/internal/ui/picker"
)

type pickFlags struct {
	country string
	state   string
	city    string
	last    bool
	copy    bool
	json    bool
}

// pickResult is the --json output of pick.
type pickResult struct {
	selection.Selection
	Summary string `json:"summary"`
}

func newPickCmd() *cobra.Command {
	var f pickFlags

	cmd := &cobra.Command{
		Use:     "pick",
		Short:   "Select a country, state and city",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `Select a country, state and city.

Opens an interactive picker with three columns. Presets are selected as
soon as their list loads. When stdin is not a terminal, all three presets
are required and the selection is resolved without the picker.

The summary is printed to stdout and the selection is recorded in history.`,
		Example: `  locsel pick                                    # Interactive
  locsel pick --country India                    # Start with India selected
  locsel pick --last                             # Start from the last selection
  locsel pick --country India --state Maharashtra --city Pune < /dev/null
  locsel pick --json --copy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPick(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.country, "country", "", "Preselect a country")
	cmd.Flags().StringVar(&f.state, "state", "", "Preselect a state")
	cmd.Flags().StringVar(&f.city, "city", "", "Preselect a city")
	cmd.Flags().BoolVar(&f.last, "last", false, "Preselect the most recent selection from history")
	cmd.Flags().BoolVar(&f.copy, "copy", false, "Copy the summary to the clipboard")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print the selection as JSON")

	return cmd
}

func runPick(cmd *cobra.Command, f pickFlags) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	l := log.FromContext(ctx)

	preset := selection.Selection{Country: f.country, State: f.state, City: f.city}
	if f.last {
		h, err := history.Load(cfg.GetHistoryPath())
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if e, ok := h.MostRecent(); ok {
			preset = fillPreset(preset, e)
		} else {
			l.Println("No history yet")
		}
	}

	var sel selection.Selection
	if stdinIsTerminal() {
		// The picker owns the terminal; hold request logs until it exits.
		deferred, flush := l.Deferred()
		pickCtx := log.WithLogger(ctx, deferred)
		client, err := newClient(pickCtx)
		if err != nil {
			return err
		}
		res, err := picker.Run(pickCtx, client, picker.Options{
			Info:   client.Endpoints().Base,
			Preset: preset,
		})
		flush()
		if err != nil {
			return err
		}
		if res.Cancelled {
			return errCancelled
		}
		sel = res.Selection
	} else {
		if preset.Country == "" || preset.State == "" || preset.City == "" {
			return errors.New("stdin is not a terminal: pass --country, --state and --city (or --last)")
		}
		client, err := newClient(ctx)
		if err != nil {
			return err
		}
		sel, err = selection.Resolve(ctx, client, preset.Country, preset.State, preset.City)
		if err != nil {
			return err
		}
	}

	if err := history.RecordSelection(cfg.GetHistoryPath(), sel.Country, sel.State, sel.City, cfg.HistoryLimit); err != nil {
		l.Printf("Warning: failed to record history: %v\n", err)
	}

	summary := sel.Summary()
	if f.copy {
		if err := clipboard.WriteAll(summary); err != nil {
			l.Printf("Warning: failed to copy to clipboard: %v\n", err)
		} else {
			l.Debug("copied to clipboard")
		}
	}

	out := output.FromContext(ctx)
	if f.json {
		return out.JSON(pickResult{Selection: sel, Summary: summary})
	}
	out.Println(summary)
	return nil
}

// fillPreset fills the levels not given on the command line from a
// history entry. An explicit country that differs from the entry's
// discards the entry's state and city, and likewise for state.
func fillPreset(p selection.Selection, e history.Entry) selection.Selection {
	if p.Country != "" && p.Country != e.Country {
		return p
	}
	p.Country = e.Country
	if p.State != "" && p.State != e.State {
		return p
	}
	p.State = e.State
	if p.City == "" {
		p.City = e.City
	}
	return p
}
