package static

import (
	"fmt"
	"strconv"
	"time"

	"github.com/raphi011/locsel/internal/history"
)

// HistoryHeaders are the column titles of the history table.
var HistoryHeaders = []string{"CITY", "STATE", "COUNTRY", "USES", "LAST USED"}

// HistoryUsesColumn is the index of the right-aligned use count.
const HistoryUsesColumn = 3

// HistoryTableRow formats one history entry; now anchors the relative age.
func HistoryTableRow(e history.Entry, now time.Time) []string {
	return []string{
		e.City,
		e.State,
		e.Country,
		strconv.Itoa(e.UseCount),
		FormatAge(now.Sub(e.LastUsed)),
	}
}

// FormatAge renders d as a coarse age like "5 minutes ago".
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d < 30*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	default:
		return plural(int(d/(30*24*time.Hour)), "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
