package picker

import (
	"context"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"

	"github.com/raphi011/locsel/internal/selection"
)

// Result is the outcome of an interactive session.
type Result struct {
	Selection selection.Selection
	Cancelled bool
}

// Run shows the picker until the user confirms or cancels.
// The TUI renders to stderr so stdout stays clean for the result.
func Run(ctx context.Context, f selection.Fetcher, opts Options) (Result, error) {
	m := selection.New(selection.WithContext(ctx))
	defer m.Close()

	model := New(m, f, opts)

	// Detect color profile for stderr (handles piped output, NO_COLOR, etc.)
	profile := colorprofile.Detect(os.Stderr, os.Environ())

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(profile),
	)
	final, err := p.Run()
	if err != nil {
		return Result{}, err
	}

	pm := final.(*Model)
	if !pm.Done() {
		return Result{Cancelled: true}, nil
	}
	return Result{Selection: pm.Selection()}, nil
}
