// Package config handles loading and validation of locsel configuration.
//
// Configuration is read from ~/.config/locsel/config.toml with environment
// variable overrides for the directory service settings.
//
// # Configuration Sources (highest priority first)
//
//   - LOCSEL_BASE_URL env var: explicit directory service base URL
//   - LOCSEL_ENV env var: environment name used to pick a base URL
//   - LOCSEL_STYLE env var: endpoint convention ("path" or "query")
//   - LOCSEL_THEME env var: UI theme name
//   - Config file settings
//   - Default values
//
// # Environments
//
// The directory service base URL is chosen by environment name. Two
// environments are built in and can be overridden or extended:
//
//	environment = "production"
//
//	[environments.production]
//	base_url = "https://crio-location-selector.onrender.com"
//
//	[environments.test]
//	base_url = "https://location_selector.labs.crio.do"
//
// A non-empty [directory] base_url bypasses environment selection.
//
// # Directory Settings
//
//	[directory]
//	style = "path"   # "path": /country={c}/states, "query": /states?country={c}
//	timeout = "10s"  # per-request timeout
//	retries = 2      # retries on connection errors (HTTP errors never retry)
package config
