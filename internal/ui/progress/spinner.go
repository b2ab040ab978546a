// Package progress shows a spinner on stderr while a fetch is running.
package progress

import (
	"context"
	"os"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-isatty"

	"github.com/raphi011/locsel/internal/ui/styles"
)

// doneMsg stops the spinner.
type doneMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
}

func newSpinnerModel(message string) spinnerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Accent)
	return spinnerModel{spinner: sp, message: message}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() tea.View {
	if m.done || m.message == "" {
		return tea.NewView("")
	}
	return tea.NewView(m.spinner.View() + " " + styles.MutedStyle.Render(m.message))
}

// Run calls fn while a spinner with message is shown on out.
// Nothing is drawn when out is not a terminal.
func Run(ctx context.Context, out *os.File, message string, fn func(context.Context) error) error {
	if out == nil || !(isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())) {
		return fn(ctx)
	}

	p := tea.NewProgram(newSpinnerModel(message),
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(out),
		tea.WithoutSignalHandler(),
	)
	done := make(chan struct{})
	go func() {
		_, _ = p.Run()
		close(done)
	}()

	err := fn(ctx)

	p.Send(doneMsg{})
	<-done
	return err
}
