package doctor

import (
	"time"

	"github.com/raphi011/locsel/internal/selection"
)

// IssueCategory groups issues by type.
type IssueCategory string

const (
	CategoryConfig  IssueCategory = "config"
	CategoryHistory IssueCategory = "history"
	CategoryService IssueCategory = "service"
)

// Fix actions.
const (
	FixNone         = ""
	FixResetHistory = "reset_history"
)

// Issue represents a problem detected by doctor.
type Issue struct {
	Key         string // file path or endpoint label
	Description string
	FixAction   string
	Category    IssueCategory
}

// Probe is the outcome of one directory request.
type Probe struct {
	Label   string
	Count   int
	Elapsed time.Duration
	Err     error
}

// Options configures a diagnostic run.
type Options struct {
	HistoryPath string

	// Fetcher is nil when ConfigErr is set.
	Fetcher   selection.Fetcher
	ConfigErr error

	// BaseURL and Style are only reported.
	BaseURL string
	Style   string

	// Probes is how many countries get their states listed. Zero means
	// DefaultProbes.
	Probes int
}

// DefaultProbes is the default number of state probes.
const DefaultProbes = 3
