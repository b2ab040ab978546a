package picker

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/locsel/internal/ui/styles"
)

const defaultVisible = 8

// list is one selector's option list with fuzzy filtering. Empty options
// are shown but the cursor skips them.
type list struct {
	options  []string
	filtered []fuzzy.Match // fuzzy matches with indices and matched positions
	cursor   int           // position in filtered
	filter   string
	visible  int
}

func newList() *list {
	return &list{visible: defaultVisible}
}

// setOptions replaces the options and resets filter and cursor.
func (l *list) setOptions(opts []string) {
	l.options = opts
	l.filter = ""
	l.cursor = 0
	l.applyFilter()
	l.cursor = l.findNextEnabled(-1)
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *list) applyFilter() {
	if l.filter == "" {
		l.filtered = make([]fuzzy.Match, len(l.options))
		for i, o := range l.options {
			l.filtered[i] = fuzzy.Match{Str: o, Index: i}
		}
	} else {
		// results are sorted by score, best first
		l.filtered = fuzzy.Find(l.filter, l.options)
	}

	if l.cursor >= len(l.filtered) {
		l.cursor = max(0, len(l.filtered)-1)
	}
	if !l.enabled(l.cursor) {
		if next := l.findNextEnabled(l.cursor); next >= 0 {
			l.cursor = next
		} else if prev := l.findPrevEnabled(l.cursor); prev >= 0 {
			l.cursor = prev
		}
	}
}

func (l *list) enabled(i int) bool {
	return i >= 0 && i < len(l.filtered) && l.options[l.filtered[i].Index] != ""
}

func (l *list) findNextEnabled(from int) int {
	for i := from + 1; i < len(l.filtered); i++ {
		if l.enabled(i) {
			return i
		}
	}
	return -1
}

func (l *list) findPrevEnabled(from int) int {
	for i := from - 1; i >= 0; i-- {
		if l.enabled(i) {
			return i
		}
	}
	return -1
}

func (l *list) up() {
	if prev := l.findPrevEnabled(l.cursor); prev >= 0 {
		l.cursor = prev
	}
}

func (l *list) down() {
	if next := l.findNextEnabled(l.cursor); next >= 0 {
		l.cursor = next
	}
}

func (l *list) home() {
	if first := l.findNextEnabled(-1); first >= 0 {
		l.cursor = first
	}
}

func (l *list) end() {
	if last := l.findPrevEnabled(len(l.filtered)); last >= 0 {
		l.cursor = last
	}
}

// current returns the option under the cursor.
func (l *list) current() (string, bool) {
	if !l.enabled(l.cursor) {
		return "", false
	}
	return l.options[l.filtered[l.cursor].Index], true
}

// moveTo puts the cursor on value if it is visible.
func (l *list) moveTo(value string) {
	for i, m := range l.filtered {
		if l.options[m.Index] == value && l.enabled(i) {
			l.cursor = i
			return
		}
	}
}

func (l *list) typeText(s string) {
	l.filter += s
	l.applyFilter()
	l.cursor = l.findNextEnabled(-1)
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *list) backspace() {
	if l.filter == "" {
		return
	}
	r := []rune(l.filter)
	l.filter = string(r[:len(r)-1])
	l.applyFilter()
}

// deleteWord removes the last word of the filter.
func (l *list) deleteWord() {
	trimmed := strings.TrimRight(l.filter, " ")
	if i := strings.LastIndex(trimmed, " "); i >= 0 {
		l.filter = trimmed[:i+1]
	} else {
		l.filter = ""
	}
	l.applyFilter()
}

// clearFilter reports whether there was a filter to clear.
func (l *list) clearFilter() bool {
	if l.filter == "" {
		return false
	}
	l.filter = ""
	l.applyFilter()
	return true
}

// view renders the filter line and the visible window of options.
// chosen is the level's selected value; it gets a check mark.
func (l *list) view(width int, focused bool, chosen string) string {
	var b strings.Builder

	if l.filter != "" {
		b.WriteString(FilterLabelStyle().Render("/") + FilterStyle().Render(l.filter) + "\n")
	}

	start := 0
	if l.cursor >= l.visible {
		start = l.cursor - l.visible + 1
	}
	end := min(start+l.visible, len(l.filtered))

	if start > 0 {
		b.WriteString(OptionDisabledStyle().Render("  ↑ more") + "\n")
	}

	for i := start; i < end; i++ {
		match := l.filtered[i]
		opt := l.options[match.Index]

		if opt == "" {
			b.WriteString("  " + OptionDisabledStyle().Render("(unnamed)") + "\n")
			continue
		}

		prefix := "  "
		style := OptionNormalStyle()
		switch {
		case focused && i == l.cursor:
			prefix = styles.Pointer + " "
			style = OptionCursorStyle()
		case opt == chosen:
			prefix = TabCheckStyle().Render(styles.Check) + " "
			style = OptionChosenStyle()
		}

		label := ansi.Truncate(opt, max(width-2, 1), "…")
		if l.filter != "" && len(match.MatchedIndexes) > 0 && label == opt {
			label = styles.Highlight(opt, match.MatchedIndexes, style.Render)
		} else {
			label = style.Render(label)
		}
		b.WriteString(prefix + label + "\n")
	}

	if end < len(l.filtered) {
		b.WriteString(OptionDisabledStyle().Render("  ↓ more") + "\n")
	}
	if len(l.filtered) == 0 {
		if l.filter != "" {
			b.WriteString(OptionDisabledStyle().Render("  No matches") + "\n")
		} else {
			b.WriteString(OptionDisabledStyle().Render("  Empty") + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
