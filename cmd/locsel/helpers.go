package main

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/raphi011/locsel/internal/config"
	"github.com/raphi011/locsel/internal/directory"
	"github.com/raphi011/locsel/internal/log"
)

// newClient builds a directory client from the config in ctx.
func newClient(ctx context.Context) (*directory.Client, error) {
	cfg := config.FromContext(ctx)
	base, err := cfg.BaseURL()
	if err != nil {
		return nil, err
	}
	l := log.FromContext(ctx)
	l.Debug("directory", "base_url", base, "style", cfg.Directory.Style)

	return directory.New(directory.Options{
		BaseURL: base,
		Style:   cfg.Directory.Style,
		Timeout: cfg.Directory.RequestTimeout(),
		Retries: cfg.Directory.RetryCount(),
		Logger:  l,
	})
}

// stdinIsTerminal decides between the picker and headless resolution.
var stdinIsTerminal = func() bool { return isTerminal(os.Stdin) }

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
