package picker

import (
	"charm.land/lipgloss/v2"

	"github.com/raphi011/locsel/internal/ui/styles"
)

// Style functions return styles based on the current theme.
// They are functions rather than variables to pick up theme changes.

// BorderStyle wraps the whole picker (left border only)
func BorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderLeft(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Primary).
		MarginTop(1).
		MarginBottom(1).
		PaddingLeft(2).
		PaddingRight(2)
}

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Primary)
}

// TabActiveStyle is the focused level's tab
func TabActiveStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Accent)
}

// TabDoneStyle is a tab whose level has a value
func TabDoneStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Normal)
}

func TabCheckStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Success)
}

func TabInactiveStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Muted)
}

// ColumnStyle frames one selector column
func ColumnStyle(width int, focused bool) lipgloss.Style {
	border := styles.Muted
	if focused {
		border = styles.Primary
	}
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		PaddingLeft(1).
		PaddingRight(1)
}

// HeaderStyle is the column heading
func HeaderStyle(focused bool) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	if focused {
		return s.Foreground(styles.Accent)
	}
	return s.Foreground(styles.Normal)
}

// OptionCursorStyle for the option under the cursor
func OptionCursorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Accent)
}

// OptionChosenStyle for the level's current value
func OptionChosenStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Success)
}

func OptionNormalStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Normal)
}

// OptionDisabledStyle for unselectable options and disabled columns
func OptionDisabledStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Muted)
}

func FilterStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
}

func FilterLabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Muted)
}

func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Error)
}

// SummaryStyle for the confirmation sentence
func SummaryStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Success)
}

// InfoStyle for the info line and notices
func InfoStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Info).
		Italic(true)
}

func HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginTop(1)
}
