// Package picker provides the interactive three-column location picker.
//
// The model owns a selection.Machine and turns its fetch requests into
// tea.Cmds; fetch results come back as messages and are settled on the
// event loop, so the machine is only ever touched from Update.
package picker

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/raphi011/locsel/internal/selection"
	"github.com/raphi011/locsel/internal/ui/styles"
)

const columnWidth = 28

// fetchedMsg carries a settled fetch back to the event loop.
type fetchedMsg struct {
	result selection.Result
}

// Options configures a picker.
type Options struct {
	Title string

	// Info is shown under the title, e.g. the service URL.
	Info string

	// Preset values are selected as soon as their list loads and
	// contains them.
	Preset selection.Selection
}

// Model is the bubbletea model of the picker.
type Model struct {
	machine *selection.Machine
	fetcher selection.Fetcher
	lists   [3]*list
	focus   selection.Level
	spinner spinner.Model

	title  string
	info   string
	preset selection.Selection
	notice string

	done      bool
	cancelled bool
	width     int
}

// New creates a picker that loads options through f.
func New(m *selection.Machine, f selection.Fetcher, opts Options) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Accent)

	title := opts.Title
	if title == "" {
		title = "Select a location"
	}

	p := &Model{
		machine: m,
		fetcher: f,
		spinner: sp,
		title:   title,
		info:    opts.Info,
		preset:  opts.Preset,
		width:   80,
	}
	for i := range p.lists {
		p.lists[i] = newList()
	}
	return p
}

// Selection returns the machine's current selection.
func (p *Model) Selection() selection.Selection {
	return p.machine.Selection()
}

// Done reports whether the user confirmed a complete selection.
func (p *Model) Done() bool { return p.done }

// Cancelled reports whether the user quit without confirming.
func (p *Model) Cancelled() bool { return p.cancelled }

// Focus returns the focused level.
func (p *Model) Focus() selection.Level { return p.focus }

// Filter returns the filter text of level's list.
func (p *Model) Filter(level selection.Level) string { return p.lists[level].filter }

func (p *Model) Init() tea.Cmd {
	return tea.Batch(p.spinner.Tick, p.run(p.machine.Mount()))
}

// run turns fetch requests into commands.
func (p *Model) run(reqs []selection.Request) tea.Cmd {
	if len(reqs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(reqs))
	for _, req := range reqs {
		cmds = append(cmds, func() tea.Msg {
			return fetchedMsg{result: selection.Fetch(p.fetcher, req)}
		})
	}
	return tea.Batch(cmds...)
}

func (p *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil

	case fetchedMsg:
		if !p.machine.Settle(msg.result) {
			return p, nil
		}
		p.sync()
		return p, p.applyPreset(msg.result.Level)

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyPressMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	l := p.lists[p.focus]

	switch msg.String() {
	case "ctrl+c":
		return p.quit(true)
	case "esc":
		if l.clearFilter() {
			return p, nil
		}
		return p.quit(true)
	case "left", "shift+tab":
		p.moveFocus(-1)
		return p, nil
	case "right", "tab":
		p.moveFocus(1)
		return p, nil
	}

	if p.machine.Status(p.focus) == selection.Failed && msg.String() == "r" {
		p.notice = ""
		cmd := p.run(p.machine.Reload(p.focus))
		p.sync()
		return p, cmd
	}

	if p.machine.Disabled(p.focus) {
		return p, nil
	}

	switch msg.String() {
	case "up", "ctrl+p":
		l.up()
	case "down", "ctrl+n":
		l.down()
	case "home", "pgup":
		l.home()
	case "end", "pgdown":
		l.end()
	case "enter":
		return p.enter()
	case "backspace":
		l.backspace()
	case "alt+backspace", "ctrl+w":
		l.deleteWord()
	default:
		if msg.Text != "" {
			l.typeText(msg.Text)
		}
	}
	return p, nil
}

// enter selects the highlighted option, or confirms a complete selection
// when the highlighted option is already chosen.
func (p *Model) enter() (tea.Model, tea.Cmd) {
	value, ok := p.lists[p.focus].current()
	if !ok {
		return p, nil
	}
	if value == p.machine.Selected(p.focus) && p.machine.Complete() {
		return p.quit(false)
	}
	p.notice = ""
	return p, p.choose(p.focus, value)
}

// choose selects value at level and advances focus to the next level.
func (p *Model) choose(level selection.Level, value string) tea.Cmd {
	cmd := p.run(p.machine.Select(level, value))
	p.lists[level].clearFilter()
	p.sync()
	p.lists[level].moveTo(value)
	if level < selection.City {
		p.focus = level + 1
	}
	return cmd
}

// applyPreset selects the preset value for a freshly loaded level.
func (p *Model) applyPreset(level selection.Level) tea.Cmd {
	want := presetFor(p.preset, level)
	if want == "" || p.machine.Status(level) != selection.Loaded {
		return nil
	}
	clearPreset(&p.preset, level)
	if !slices.Contains(p.machine.Options(level), want) {
		p.notice = fmt.Sprintf("%s %q not found", level.Title(), want)
		for l := level + 1; l <= selection.City; l++ {
			clearPreset(&p.preset, l)
		}
		p.focus = level
		return nil
	}
	return p.choose(level, want)
}

func presetFor(s selection.Selection, level selection.Level) string {
	switch level {
	case selection.Country:
		return s.Country
	case selection.State:
		return s.State
	case selection.City:
		return s.City
	}
	return ""
}

func clearPreset(s *selection.Selection, level selection.Level) {
	switch level {
	case selection.Country:
		s.Country = ""
	case selection.State:
		s.State = ""
	case selection.City:
		s.City = ""
	}
}

// sync copies the machine's option lists into the column lists when they
// changed.
func (p *Model) sync() {
	for _, level := range selection.Levels {
		opts := p.machine.Options(level)
		if !slices.Equal(opts, p.lists[level].options) {
			p.lists[level].setOptions(opts)
		}
	}
}

// moveFocus moves focus by delta, never past a level whose prerequisite
// is unset.
func (p *Model) moveFocus(delta int) {
	next := p.focus + selection.Level(delta)
	if next < selection.Country || next > selection.City {
		return
	}
	if next > selection.Country && p.machine.Selected(next-1) == "" {
		return
	}
	p.focus = next
}

func (p *Model) quit(cancelled bool) (tea.Model, tea.Cmd) {
	p.cancelled = cancelled
	p.done = !cancelled
	p.machine.Close()
	return p, tea.Quit
}

func (p *Model) View() tea.View {
	if p.done || p.cancelled {
		return tea.NewView("")
	}

	var b strings.Builder
	b.WriteString(TitleStyle().Render(p.title))
	b.WriteString("\n")
	if p.info != "" {
		b.WriteString(InfoStyle().Render(p.info))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(p.renderTabs())
	b.WriteString("\n")

	cols := make([]string, 0, len(selection.Levels))
	for _, level := range selection.Levels {
		cols = append(cols, p.renderColumn(level))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n")

	if msg := p.machine.Err(); msg != "" {
		b.WriteString("\n" + ErrorStyle().Render("Error: "+msg))
	}
	if p.notice != "" {
		b.WriteString("\n" + InfoStyle().Render(p.notice))
	}
	if summary := p.machine.Summary(); summary != "" {
		b.WriteString("\n" + SummaryStyle().Render(summary))
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle().Render(p.help()))

	return tea.NewView(BorderStyle().Render(b.String()))
}

func (p *Model) renderTabs() string {
	tabs := make([]string, 0, len(selection.Levels))
	for i, level := range selection.Levels {
		label := fmt.Sprintf("%d. %s", i+1, level.Title())
		chosen := p.machine.Selected(level) != ""
		mark := "  "
		if chosen {
			mark = TabCheckStyle().Render(styles.Check + " ")
		}
		switch {
		case level == p.focus:
			tabs = append(tabs, mark+TabActiveStyle().Render(label))
		case chosen:
			tabs = append(tabs, mark+TabDoneStyle().Render(label))
		default:
			tabs = append(tabs, mark+TabInactiveStyle().Render(label))
		}
	}
	return strings.Join(tabs, TabInactiveStyle().Render(" "+styles.TabArrow+" "))
}

func (p *Model) renderColumn(level selection.Level) string {
	focused := level == p.focus
	disabled := p.machine.Disabled(level)
	selected := p.machine.Selected(level)

	var b strings.Builder
	b.WriteString(HeaderStyle(focused && !disabled).Render(level.Title()))
	b.WriteString("\n")

	switch p.machine.Status(level) {
	case selection.Loading:
		b.WriteString(p.spinner.View() + " " + OptionDisabledStyle().Render("Loading "+level.Plural()+"…"))
	case selection.Failed:
		b.WriteString(ErrorStyle().Render(styles.Cross+" Failed") + "\n")
		b.WriteString(OptionDisabledStyle().Render("r to retry"))
	case selection.Idle:
		b.WriteString(OptionDisabledStyle().Render(idleHint(level)))
	default:
		b.WriteString(p.lists[level].view(columnWidth-4, focused && !disabled, selected))
	}

	return ColumnStyle(columnWidth, focused).Render(b.String())
}

func idleHint(level selection.Level) string {
	switch level {
	case selection.State:
		return "Select a country first"
	case selection.City:
		return "Select a state first"
	}
	return "Not loaded"
}

func (p *Model) help() string {
	parts := []string{"↑↓ move", "type to filter", "enter select", "←→ column"}
	if p.machine.Complete() {
		parts = append(parts, "enter on "+styles.Check+" confirm")
	}
	if p.machine.Status(p.focus) == selection.Failed {
		parts = append(parts, "r retry")
	}
	parts = append(parts, "esc cancel")
	return strings.Join(parts, " "+styles.Bullet+" ")
}
