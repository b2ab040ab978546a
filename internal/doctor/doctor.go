package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/raphi011/locsel/internal/output"
)

// Report is the result of Check.
type Report struct {
	HistoryEntries int
	Probes         []Probe
	Issues         []Issue
}

// Fixable returns the issues that have a fix action.
func (r Report) Fixable() []Issue {
	var fixable []Issue
	for _, i := range r.Issues {
		if i.FixAction != FixNone {
			fixable = append(fixable, i)
		}
	}
	return fixable
}

// Check runs all checks without printing. It fails only when ctx is
// cancelled before the service checks finish.
func Check(ctx context.Context, opts Options) (Report, error) {
	var r Report

	count, issues := checkHistory(opts.HistoryPath)
	r.HistoryEntries = count
	r.Issues = append(r.Issues, issues...)

	if opts.ConfigErr != nil || opts.Fetcher == nil {
		desc := "no directory client"
		if opts.ConfigErr != nil {
			desc = opts.ConfigErr.Error()
		}
		r.Issues = append(r.Issues, Issue{Key: "base_url", Description: desc, Category: CategoryConfig})
		return r, nil
	}

	n := opts.Probes
	if n <= 0 {
		n = DefaultProbes
	}
	probes, issues, err := checkService(ctx, opts.Fetcher, opts.Style, n)
	r.Probes = probes
	r.Issues = append(r.Issues, issues...)
	return r, err
}

// Run performs the checks, prints a report to out and optionally fixes
// what it can. It returns an error when issues remain.
func Run(ctx context.Context, out *output.Printer, opts Options, fix bool) error {
	out.Println("Running diagnostics...")
	r, err := Check(ctx, opts)
	if err != nil {
		return err
	}

	out.Println()
	if opts.ConfigErr == nil {
		out.Printf("  ✓ Directory: %s (%s style)\n", opts.BaseURL, opts.Style)
	}
	if len(r.Fixable()) == 0 {
		out.Printf("  ✓ History: %d entries (%s)\n", r.HistoryEntries, opts.HistoryPath)
	}
	for _, p := range r.Probes {
		elapsed := p.Elapsed.Round(time.Millisecond)
		if p.Err != nil {
			out.Printf("  ✕ Failed to load %s (%s)\n", p.Label, elapsed)
			continue
		}
		out.Printf("  ✓ Loaded %s: %d entries (%s)\n", p.Label, p.Count, elapsed)
	}

	if len(r.Issues) == 0 {
		out.Println("\n✓ No issues found")
		return nil
	}

	out.Printf("\nFound %d issue(s):\n", len(r.Issues))
	printIssuesByCategory(out, r.Issues)

	fixable := r.Fixable()
	if fix && len(fixable) > 0 {
		out.Println()
		if err := fixAllIssues(out, fixable); err != nil {
			return err
		}
		if remaining := len(r.Issues) - len(fixable); remaining > 0 {
			return fmt.Errorf("%d issues found", remaining)
		}
		return nil
	}
	if len(fixable) > 0 {
		out.Println("\nRun 'locsel doctor --fix' to repair.")
	}
	return fmt.Errorf("%d issues found", len(r.Issues))
}

// printIssuesByCategory groups and prints issues.
func printIssuesByCategory(out *output.Printer, issues []Issue) {
	byCategory := make(map[IssueCategory][]Issue)
	for _, issue := range issues {
		byCategory[issue.Category] = append(byCategory[issue.Category], issue)
	}

	categoryNames := map[IssueCategory]string{
		CategoryConfig:  "Configuration issues",
		CategoryHistory: "History issues",
		CategoryService: "Directory service issues",
	}

	for _, cat := range []IssueCategory{CategoryConfig, CategoryHistory, CategoryService} {
		catIssues := byCategory[cat]
		if len(catIssues) == 0 {
			continue
		}
		out.Printf("\n%s:\n", categoryNames[cat])
		for _, issue := range catIssues {
			out.Printf("  • %s: %s\n", issue.Key, issue.Description)
		}
	}
}
