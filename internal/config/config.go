package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
)

// Built-in environment names.
const (
	EnvProduction = "production"
	EnvTest       = "test"
)

// Defaults for directory settings.
const (
	DefaultStyle        = "path"
	DefaultTimeout      = 10 * time.Second
	DefaultRetries      = 2
	DefaultHistoryLimit = 20
)

// builtinEnvironments maps environment names to the directory service
// base URLs they use when the config file doesn't override them.
var builtinEnvironments = map[string]string{
	EnvProduction: "https://crio-location-selector.onrender.com",
	EnvTest:       "https://location_selector.labs.crio.do",
}

// EnvironmentConfig holds the settings for one named environment.
type EnvironmentConfig struct {
	BaseURL string `toml:"base_url"`
}

// DirectoryConfig holds directory service settings.
type DirectoryConfig struct {
	BaseURL string `toml:"base_url"` // bypasses environment selection when set
	Style   string `toml:"style"`    // "path" or "query"
	Timeout string `toml:"timeout"`  // Go duration string, e.g. "10s"
	Retries *int   `toml:"retries"`  // nil = DefaultRetries
}

// RequestTimeout returns the parsed per-request timeout.
// Invalid or empty values fall back to DefaultTimeout.
func (d *DirectoryConfig) RequestTimeout() time.Duration {
	if d.Timeout == "" {
		return DefaultTimeout
	}
	t, err := time.ParseDuration(d.Timeout)
	if err != nil || t <= 0 {
		return DefaultTimeout
	}
	return t
}

// RetryCount returns the configured retry count, or DefaultRetries if unset.
func (d *DirectoryConfig) RetryCount() int {
	if d.Retries == nil {
		return DefaultRetries
	}
	return *d.Retries
}

// ThemeConfig holds UI theme settings. Name selects a preset; the color
// fields override individual preset colors.
type ThemeConfig struct {
	Name    string `toml:"name"`
	Primary string `toml:"primary"`
	Accent  string `toml:"accent"`
	Success string `toml:"success"`
	Error   string `toml:"error"`
	Muted   string `toml:"muted"`
	Normal  string `toml:"normal"`
	Info    string `toml:"info"`
}

// Config holds the locsel configuration
type Config struct {
	Environment  string                       `toml:"environment"`
	Environments map[string]EnvironmentConfig `toml:"environments"`
	Directory    DirectoryConfig              `toml:"directory"`
	Theme        ThemeConfig                  `toml:"theme"`
	HistoryPath  string                       `toml:"history_file"`
	HistoryLimit int                          `toml:"history_limit"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Environment:  EnvProduction,
		Directory:    DirectoryConfig{Style: DefaultStyle},
		HistoryLimit: DefaultHistoryLimit,
	}
}

// BaseURL resolves the directory service base URL: an explicit
// directory.base_url wins, otherwise the current environment's URL from
// the config file, otherwise the built-in URL for that environment.
func (c *Config) BaseURL() (string, error) {
	if c.Directory.BaseURL != "" {
		return c.Directory.BaseURL, nil
	}
	env := c.Environment
	if env == "" {
		env = EnvProduction
	}
	if e, ok := c.Environments[env]; ok && e.BaseURL != "" {
		return e.BaseURL, nil
	}
	if u, ok := builtinEnvironments[env]; ok {
		return u, nil
	}
	return "", fmt.Errorf("unknown environment %q: must be %s or defined in [environments.%s]",
		env, formatOptions(c.EnvironmentNames()), env)
}

// EnvironmentNames returns all known environment names, sorted.
func (c *Config) EnvironmentNames() []string {
	seen := make(map[string]bool)
	for name := range builtinEnvironments {
		seen[name] = true
	}
	for name := range c.Environments {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetHistoryPath returns the history file path, defaulting to
// ~/.locsel/history.json.
func (c *Config) GetHistoryPath() string {
	if c.HistoryPath != "" {
		return c.HistoryPath
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".locsel", "history.json")
}

type ctxKey struct{}

// WithConfig attaches the config to the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the config stored in ctx, or nil if none.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the path to the config file
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "locsel", "config.toml"), nil
}

// Load reads config from ~/.config/locsel/config.toml
// Returns Default() if file doesn't exist (no error)
// Returns error only if file exists but is invalid
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		cfg := Default()
		return cfg, applyEnvOverrides(&cfg)
	}
	return LoadFile(path)
}

// LoadFile reads config from path, applies env overrides and validates.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Default(), fmt.Errorf("failed to read config file: %w", err)
		}
	} else if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Default(), err
	}

	if err := cfg.validate(); err != nil {
		return Default(), err
	}

	if cfg.HistoryPath != "" {
		expanded, err := expandPath(cfg.HistoryPath)
		if err != nil {
			return Default(), fmt.Errorf("expand history_file: %w", err)
		}
		cfg.HistoryPath = expanded
	}

	// Use defaults for empty values
	if cfg.Directory.Style == "" {
		cfg.Directory.Style = DefaultStyle
	}
	if cfg.Environment == "" {
		cfg.Environment = EnvProduction
	}

	return cfg, nil
}

// applyEnvOverrides applies LOCSEL_* environment variables on top of cfg.
// Empty variables are ignored.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LOCSEL_ENV"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("LOCSEL_BASE_URL"); v != "" {
		cfg.Directory.BaseURL = v
	}
	if v := os.Getenv("LOCSEL_STYLE"); v != "" {
		if err := ValidateStyle(v); err != nil {
			return fmt.Errorf("LOCSEL_STYLE: %w", err)
		}
		cfg.Directory.Style = v
	}
	if v := os.Getenv("LOCSEL_THEME"); v != "" {
		cfg.Theme.Name = v
	}
	return nil
}

func (c *Config) validate() error {
	if err := ValidateStyle(c.Directory.Style); err != nil {
		return err
	}
	if err := validateEnum(c.Theme.Name, "theme.name", ValidThemeNames); err != nil {
		return err
	}
	if err := ValidateBaseURL(c.Directory.BaseURL, "directory.base_url"); err != nil {
		return err
	}
	for name, env := range c.Environments {
		if err := ValidateBaseURL(env.BaseURL, "environments."+name+".base_url"); err != nil {
			return err
		}
	}
	if c.Directory.Timeout != "" {
		t, err := time.ParseDuration(c.Directory.Timeout)
		if err != nil {
			return fmt.Errorf("invalid directory.timeout %q: %w", c.Directory.Timeout, err)
		}
		if t <= 0 {
			return fmt.Errorf("invalid directory.timeout %q: must be positive", c.Directory.Timeout)
		}
	}
	if c.Directory.Retries != nil && *c.Directory.Retries < 0 {
		return fmt.Errorf("invalid directory.retries %d: must not be negative", *c.Directory.Retries)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("invalid history_limit %d: must not be negative", c.HistoryLimit)
	}
	if _, err := c.BaseURL(); err != nil {
		return err
	}
	return nil
}

// DefaultConfig returns the commented default config file content.
func DefaultConfig() string {
	return defaultConfig
}

const defaultConfig = `# locsel configuration

# Environment used to pick the directory service base URL.
# Built-in: "production", "test". Override with LOCSEL_ENV.
environment = "production"

# Per-environment base URLs. Add your own sections to define new environments.
# [environments.production]
# base_url = "https://crio-location-selector.onrender.com"
#
# [environments.test]
# base_url = "https://location_selector.labs.crio.do"
#
# [environments.local]
# base_url = "http://localhost:8080"   # see "locsel serve"

[directory]
# Explicit base URL; bypasses environment selection. Override with LOCSEL_BASE_URL.
# base_url = "http://localhost:8080"

# Endpoint convention of the directory service:
#   "path"  - /countries, /country={c}/states, /country={c}/state={s}/cities
#   "query" - /countries, /states?country={c}, /cities?state={s}
style = "path"

# Per-request timeout (Go duration)
timeout = "10s"

# Retries on connection errors. HTTP error statuses are never retried.
retries = 2

[theme]
# Preset: "none", "default", "dracula", "nord", "gruvbox"
# name = "default"
#
# Override individual colors (hex or ANSI 256 code):
# accent = "#ff79c6"

# Where confirmed selections are recorded (default ~/.locsel/history.json)
# history_file = "~/.locsel/history.json"

# Maximum number of history entries kept
history_limit = 20
`

// Init creates a default config file at ~/.config/locsel/config.toml
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	// Check if file already exists (skip if force)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path + " (use -f to overwrite)")
		}
	}

	// Create directory
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	// Write default config
	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", err
	}

	return path, nil
}
