package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/raphi011/locsel/internal/config"
	"github.com/raphi011/locsel/internal/directory"
	"github.com/raphi011/locsel/internal/fixture"
	"github.com/raphi011/locsel/internal/history"
	"github.com/raphi011/locsel/internal/selection"
)

// Commands mutate the global theme, so these tests don't run in parallel.

func startFixture(t *testing.T, style directory.Style) string {
	t.Helper()
	srv := httptest.NewServer(fixture.New(fixture.Default(), fixture.Options{Style: style}).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	retries := 0
	cfg := config.Default()
	cfg.Directory.BaseURL = baseURL
	cfg.Directory.Retries = &retries
	cfg.HistoryPath = filepath.Join(t.TempDir(), "history.json")
	return cfg
}

func headless(t *testing.T) {
	t.Helper()
	prev := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = prev })
}

func execute(t *testing.T, cfg config.Config, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(cfg, &stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestList(t *testing.T) {
	for _, style := range []directory.Style{directory.StylePath, directory.StyleQuery} {
		t.Run(string(style), func(t *testing.T) {
			cfg := testConfig(t, startFixture(t, style))

			out, _, err := execute(t, cfg, "--style", string(style), "list", "countries")
			if err != nil {
				t.Fatalf("list countries: %v", err)
			}
			if !strings.Contains(out, "India\n") || !strings.Contains(out, "Germany\n") {
				t.Errorf("countries output = %q", out)
			}

			out, _, err = execute(t, cfg, "--style", string(style), "list", "cities", "India", "Maharashtra")
			if err != nil {
				t.Fatalf("list cities: %v", err)
			}
			if !strings.HasPrefix(out, "Pune\nMumbai\n") {
				t.Errorf("cities output = %q", out)
			}
		})
	}
}

func TestList_JSON(t *testing.T) {
	cfg := testConfig(t, startFixture(t, directory.StylePath))

	out, _, err := execute(t, cfg, "list", "states", "Germany", "--json")
	if err != nil {
		t.Fatalf("list states: %v", err)
	}
	var names []string
	if err := json.Unmarshal([]byte(out), &names); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if len(names) != 2 || names[0] != "Bavaria" {
		t.Errorf("states = %v", names)
	}
}

func TestList_Errors(t *testing.T) {
	cfg := testConfig(t, startFixture(t, directory.StylePath))

	_, _, err := execute(t, cfg, "list", "states", "Atlantis")
	if !directory.IsHTTPStatus(err, http.StatusNotFound) {
		t.Errorf("unknown country error = %v, want HTTP 404", err)
	}

	_, _, err = execute(t, cfg, "list", "cities", "India")
	if err == nil {
		t.Error("cities with one arg should fail")
	}
}

func TestList_Verbose(t *testing.T) {
	cfg := testConfig(t, startFixture(t, directory.StylePath))

	_, stderr, err := execute(t, cfg, "-v", "list", "countries")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "GET "+cfg.Directory.BaseURL+"/countries 200") {
		t.Errorf("verbose log = %q", stderr)
	}
}

func TestPick_Headless(t *testing.T) {
	headless(t)
	cfg := testConfig(t, startFixture(t, directory.StylePath))

	out, _, err := execute(t, cfg, "pick", "--country", "India", "--state", "Maharashtra", "--city", "Pune")
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if out != "You selected Pune, Maharashtra, India\n" {
		t.Errorf("output = %q", out)
	}

	h, err := history.Load(cfg.HistoryPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Entries) != 1 || !h.Entries[0].Matches("India", "Maharashtra", "Pune") {
		t.Errorf("history = %+v", h.Entries)
	}
}

func TestPick_JSON(t *testing.T) {
	headless(t)
	cfg := testConfig(t, startFixture(t, directory.StyleQuery))

	out, _, err := execute(t, cfg, "--style", "query", "pick", "--json",
		"--country", "United States", "--state", "New York", "--city", "Buffalo")
	if err != nil {
		t.Fatalf("pick: %v", err)
	}

	var got struct {
		selection.Selection
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	want := selection.Selection{Country: "United States", State: "New York", City: "Buffalo"}
	if got.Selection != want {
		t.Errorf("selection = %+v, want %+v", got.Selection, want)
	}
	if got.Summary != "You selected Buffalo, New York, United States" {
		t.Errorf("summary = %q", got.Summary)
	}
}

func TestPick_Last(t *testing.T) {
	headless(t)
	cfg := testConfig(t, startFixture(t, directory.StylePath))

	if err := history.RecordSelection(cfg.HistoryPath, "Germany", "Bavaria", "Munich", 0); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, cfg, "pick", "--last")
	if err != nil {
		t.Fatalf("pick --last: %v", err)
	}
	if out != "You selected Munich, Bavaria, Germany\n" {
		t.Errorf("output = %q", out)
	}

	h, _ := history.Load(cfg.HistoryPath)
	if e := h.Find("Germany", "Bavaria", "Munich"); e == nil || e.UseCount != 2 {
		t.Errorf("history entry = %+v, want use count 2", e)
	}
}

func TestPick_HeadlessErrors(t *testing.T) {
	headless(t)
	cfg := testConfig(t, startFixture(t, directory.StylePath))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing city", []string{"pick", "--country", "India", "--state", "Kerala"}, "stdin is not a terminal"},
		{"unknown city", []string{"pick", "--country", "India", "--state", "Maharashtra", "--city", "Atlantis"}, `city "Atlantis" not found in Maharashtra, India`},
		{"unknown country", []string{"pick", "--country", "Atlantis", "--state", "x", "--city", "y"}, `country "Atlantis" not found`},
		{"last without history", []string{"pick", "--last"}, "stdin is not a terminal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, cfg, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}

	h, _ := history.Load(cfg.HistoryPath)
	if len(h.Entries) != 0 {
		t.Errorf("failed picks recorded history: %+v", h.Entries)
	}
}

func TestPick_ServiceError(t *testing.T) {
	headless(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/countries" {
			w.Write([]byte(`["India"]`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	cfg := testConfig(t, srv.URL)

	_, _, err := execute(t, cfg, "pick", "--country", "India", "--state", "Maharashtra", "--city", "Pune")
	if err == nil || err.Error() != "Failed to load states for India: HTTP 500" {
		t.Errorf("error = %v", err)
	}
}

func TestFillPreset(t *testing.T) {
	e := history.Entry{Country: "India", State: "Maharashtra", City: "Pune"}

	tests := []struct {
		name string
		in   selection.Selection
		want selection.Selection
	}{
		{"empty takes entry", selection.Selection{}, selection.Selection{Country: "India", State: "Maharashtra", City: "Pune"}},
		{"city override", selection.Selection{City: "Nagpur"}, selection.Selection{Country: "India", State: "Maharashtra", City: "Nagpur"}},
		{"other country drops entry", selection.Selection{Country: "Canada"}, selection.Selection{Country: "Canada"}},
		{"other state keeps country", selection.Selection{State: "Kerala"}, selection.Selection{Country: "India", State: "Kerala"}},
		{"same country fills rest", selection.Selection{Country: "India"}, selection.Selection{Country: "India", State: "Maharashtra", City: "Pune"}},
	}

	for _, tt := range tests {
		if got := fillPreset(tt.in, e); got != tt.want {
			t.Errorf("%s: fillPreset() = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestHistory(t *testing.T) {
	headless(t)
	cfg := testConfig(t, startFixture(t, directory.StylePath))

	_, stderr, err := execute(t, cfg, "history")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "No history yet") {
		t.Errorf("stderr = %q", stderr)
	}

	out, _, err := execute(t, cfg, "history", "--json")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("empty history json = %q, want []", out)
	}

	for _, city := range []string{"Pune", "Mumbai"} {
		if _, _, err := execute(t, cfg, "pick", "--country", "India", "--state", "Maharashtra", "--city", city); err != nil {
			t.Fatal(err)
		}
	}

	out, _, err = execute(t, cfg, "history")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.Contains(lines[0], "CITY") {
		t.Fatalf("history table = %q", out)
	}
	if !strings.Contains(lines[1], "Mumbai") || !strings.Contains(lines[2], "Pune") {
		t.Errorf("history not newest first:\n%s", out)
	}

	if _, _, err := execute(t, cfg, "history", "--clear"); err == nil {
		t.Error("--clear without a terminal or -y should fail")
	}
	_, stderr, err = execute(t, cfg, "history", "--clear", "-y")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "Cleared 2 entries") {
		t.Errorf("stderr = %q", stderr)
	}
	h, _ := history.Load(cfg.HistoryPath)
	if len(h.Entries) != 0 {
		t.Errorf("entries after clear = %d", len(h.Entries))
	}
}

func TestDoctor(t *testing.T) {
	cfg := testConfig(t, startFixture(t, directory.StylePath))

	out, _, err := execute(t, cfg, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	for _, want := range []string{
		"✓ Loaded countries: 5 entries",
		"✓ Loaded states for India",
		"✓ Loaded states for United States",
		"✓ Loaded states for Canada",
		"No issues found",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDoctor_WrongStyle(t *testing.T) {
	cfg := testConfig(t, startFixture(t, directory.StyleQuery))

	out, _, err := execute(t, cfg, "doctor")
	if err == nil || err.Error() != "3 issues found" {
		t.Errorf("error = %v, want 3 issues", err)
	}
	if !strings.Contains(out, `states for India: HTTP 404 (endpoint missing: does the service use the "query" style?)`) {
		t.Errorf("output:\n%s", out)
	}
}

func TestConfigShow(t *testing.T) {
	cfg := config.Default()
	cfg.HistoryPath = filepath.Join(t.TempDir(), "h.json")

	out, _, err := execute(t, cfg, "--env", "test", "config", "show", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got effectiveConfig
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if got.Environment != "test" || got.BaseURL != "https://location_selector.labs.crio.do" {
		t.Errorf("config = %+v", got)
	}
	if got.Style != "path" || got.Timeout != "10s" || got.Retries != 2 || got.HistoryLimit != 20 {
		t.Errorf("defaults = %+v", got)
	}

	out, _, err = execute(t, cfg, "--base-url", "http://localhost:9000", "--style", "query", "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"directory.base_url: http://localhost:9000", "directory.style: query"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigInitStdout(t *testing.T) {
	out, _, err := execute(t, config.Default(), "config", "init", "-s")
	if err != nil {
		t.Fatal(err)
	}
	if out != config.DefaultConfig() {
		t.Error("config init -s should print the default config")
	}
}

func TestGlobalFlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad style", []string{"--style", "grpc", "config", "show"}, "--style"},
		{"bad base url", []string{"--base-url", "localhost", "config", "show"}, "--base-url"},
		{"unknown env", []string{"--env", "staging", "config", "show"}, `unknown environment "staging"`},
		{"verbose and quiet", []string{"-v", "-q", "config", "show"}, "none of the others can be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, config.Default(), tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}
