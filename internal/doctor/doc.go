// Package doctor diagnoses locsel's configuration, history file and
// directory service.
//
// Checks fall into three categories:
//
//   - [CategoryConfig]: the base URL can't be resolved from config and
//     environment.
//   - [CategoryHistory]: the history file exists but can't be parsed.
//   - [CategoryService]: the countries list, or the states of one of the
//     first few countries, can't be loaded.
//
// State probes run concurrently. Only history issues are fixable: the
// corrupt file is moved aside so the next pick starts a fresh history.
package doctor
