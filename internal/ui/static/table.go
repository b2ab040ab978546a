// Package static renders non-interactive terminal output such as the
// history table.
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/locsel/internal/ui/styles"
)

// RenderTable renders headers and rows as a borderless table. Columns
// listed in right are right-aligned. Returns "" when there are no rows.
func RenderTable(headers []string, rows [][]string, right ...int) string {
	if len(rows) == 0 {
		return ""
	}

	alignRight := make(map[int]bool, len(right))
	for _, c := range right {
		alignRight[c] = true
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingRight(2)
			if alignRight[col] {
				s = s.Align(lipgloss.Right)
			}
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(styles.Primary)
			}
			return s
		})

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}
