package doctor

import (
	"fmt"
	"os"

	"github.com/raphi011/locsel/internal/output"
)

// fixAllIssues applies fixes for all fixable issues and reports what it did.
func fixAllIssues(out *output.Printer, issues []Issue) error {
	var fixed, failed int

	for _, issue := range issues {
		switch issue.FixAction {
		case FixResetHistory:
			backup := issue.Key + ".bak"
			if err := os.Rename(issue.Key, backup); err != nil {
				out.Printf("  ✕ Failed to move %s aside: %v\n", issue.Key, err)
				failed++
				continue
			}
			out.Printf("  ✓ Moved corrupt history to %s\n", backup)
			fixed++
		}
	}

	out.Printf("\nFixed %d issue(s)", fixed)
	if failed > 0 {
		out.Printf(", %d failed", failed)
	}
	out.Println()

	if failed > 0 {
		return fmt.Errorf("%d fixes failed", failed)
	}
	return nil
}
