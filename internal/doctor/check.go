package doctor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/locsel/internal/directory"
	"github.com/raphi011/locsel/internal/history"
	"github.com/raphi011/locsel/internal/selection"
)

// checkHistory reports a history file that exists but can't be loaded.
func checkHistory(path string) (int, []Issue) {
	h, err := history.Load(path)
	if err != nil {
		return 0, []Issue{{
			Key:         path,
			Description: fmt.Sprintf("unreadable: %v", err),
			FixAction:   FixResetHistory,
			Category:    CategoryHistory,
		}}
	}
	return len(h.Entries), nil
}

// maxParallelProbes bounds the state probes in flight.
const maxParallelProbes = 4

// checkService lists countries, then the states of the first n named
// countries concurrently. Probes keep request order. A cancelled context
// stops the remaining probes and is returned as the error.
func checkService(ctx context.Context, f selection.Fetcher, style string, n int) ([]Probe, []Issue, error) {
	start := time.Now()
	countries, err := f.Countries(ctx)
	probes := []Probe{{Label: "countries", Count: len(countries), Elapsed: time.Since(start), Err: err}}
	if ctx.Err() != nil {
		return probes, nil, ctx.Err()
	}
	if err != nil {
		return probes, []Issue{serviceIssue(probes[0], style)}, nil
	}

	var targets []string
	for _, c := range countries {
		if len(targets) == n {
			break
		}
		if c != "" {
			targets = append(targets, c)
		}
	}

	states := make([]Probe, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelProbes)
	for i, country := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			names, err := f.States(gctx, country)
			states[i] = Probe{
				Label:   "states for " + country,
				Count:   len(names),
				Elapsed: time.Since(start),
				Err:     err,
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return probes, nil, err
	}

	var issues []Issue
	if len(countries) == 0 {
		issues = append(issues, Issue{Key: "countries", Description: "no countries returned", Category: CategoryService})
	}
	for _, p := range states {
		if p.Err != nil {
			issues = append(issues, serviceIssue(p, style))
		}
	}
	return append(probes, states...), issues, nil
}

// serviceIssue describes a failed probe with a hint for the usual causes.
func serviceIssue(p Probe, style string) Issue {
	desc := p.Err.Error()
	switch {
	case directory.IsHTTPStatus(p.Err, http.StatusNotFound) && p.Label != "countries":
		desc += fmt.Sprintf(" (endpoint missing: does the service use the %q style?)", otherStyle(style))
	case directory.IsNetwork(p.Err):
		desc += " (service unreachable)"
	case directory.IsParse(p.Err):
		desc += " (not a JSON list)"
	}
	return Issue{Key: p.Label, Description: desc, Category: CategoryService}
}

func otherStyle(style string) directory.Style {
	if directory.Style(style) == directory.StyleQuery {
		return directory.StylePath
	}
	return directory.StyleQuery
}
