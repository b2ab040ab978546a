package progress

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"charm.land/bubbles/v2/spinner"
	"github.com/charmbracelet/x/ansi"
)

func TestSpinnerModel(t *testing.T) {
	t.Parallel()

	m := newSpinnerModel("Fetching countries")
	if m.Init() == nil {
		t.Error("Init() should start ticking")
	}

	v := ansi.Strip(m.View().Content)
	if !strings.Contains(v, "Fetching countries") {
		t.Errorf("View() = %q, want message", v)
	}

	updated, cmd := m.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next frame")
	}
	m = updated.(spinnerModel)

	updated, cmd = m.Update(doneMsg{})
	if cmd == nil {
		t.Error("doneMsg should quit")
	}
	if v := updated.(spinnerModel).View().Content; v != "" {
		t.Errorf("View() after done = %q, want empty", v)
	}
}

func TestRun_NotTerminal(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	called := false
	want := errors.New("boom")
	err = Run(context.Background(), f, "Fetching", func(context.Context) error {
		called = true
		return want
	})
	if !called {
		t.Fatal("fn not called")
	}
	if !errors.Is(err, want) {
		t.Errorf("Run() error = %v, want %v", err, want)
	}

	data, _ := os.ReadFile(f.Name())
	if len(data) != 0 {
		t.Errorf("wrote %q to a non-terminal", data)
	}
}

func TestRun_NilOutput(t *testing.T) {
	t.Parallel()

	if err := Run(context.Background(), nil, "x", func(context.Context) error { return nil }); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
