package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/locsel/internal/config"
	"github.com/raphi011/locsel/internal/history"
	"github.com/raphi011/locsel/internal/log"
	"github.com/raphi011/locsel/internal/output"
	"github.com/raphi011/locsel/internal/ui/prompt"
	"github.com/raphi011/locsel/internal/ui/static"
)

func newHistoryCmd() *cobra.Command {
	var (
		clearAll bool
		yes      bool
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:     "history",
		Short:   "Show recent selections",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `Show recently confirmed selections, newest first.

Use 'locsel pick --last' to start from the most recent one.`,
		Example: `  locsel history
  locsel history --json
  locsel history --clear -y`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			path := cfg.GetHistoryPath()

			h, err := history.Load(path)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}

			if clearAll {
				if len(h.Entries) == 0 {
					l.Println("History is empty")
					return nil
				}
				if !yes {
					if !stdinIsTerminal() {
						return fmt.Errorf("refusing to clear history without a terminal: pass -y")
					}
					res, err := prompt.Confirm(ctx, fmt.Sprintf("Clear %d history entries?", len(h.Entries)))
					if err != nil {
						return err
					}
					if !res.Confirmed {
						return nil
					}
				}
				if err := history.Clear(path); err != nil {
					return fmt.Errorf("clear history: %w", err)
				}
				l.Printf("Cleared %d entries\n", len(h.Entries))
				return nil
			}

			h.SortByRecency()
			if jsonOut {
				entries := h.Entries
				if entries == nil {
					entries = []history.Entry{}
				}
				return out.JSON(entries)
			}

			if len(h.Entries) == 0 {
				l.Println("No history yet")
				return nil
			}
			now := time.Now()
			rows := make([][]string, 0, len(h.Entries))
			for _, e := range h.Entries {
				rows = append(rows, static.HistoryTableRow(e, now))
			}
			out.Print(static.RenderTable(static.HistoryHeaders, rows, static.HistoryUsesColumn))
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "Remove all history entries")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Don't ask for confirmation")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print entries as JSON")
	cmd.MarkFlagsMutuallyExclusive("clear", "json")

	return cmd
}
