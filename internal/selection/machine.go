package selection

import (
	"context"
	"errors"
	"fmt"

	"github.com/raphi011/locsel/internal/directory"
)

// Selection is the current choice at each level. State is only set when
// Country is set; City only when State is set.
type Selection struct {
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`
}

// Request describes a fetch the driver must perform. Ctx is cancelled
// when the request is superseded.
type Request struct {
	Level   Level
	Token   uint64
	Country string
	State   string
	Ctx     context.Context
}

// Result is the outcome of a Request, fed back through Machine.Settle.
type Result struct {
	Level   Level
	Token   uint64
	Options []string
	Err     error
}

// Machine holds the selection, the option list of each level and their
// load status. It is not safe for concurrent use; drive it from a single
// goroutine.
type Machine struct {
	parent context.Context
	levels [3]*levelState
	sel    Selection
	err    string
}

// Option configures a Machine.
type Option func(*Machine)

// WithContext sets the parent context of every fetch request.
func WithContext(ctx context.Context) Option {
	return func(m *Machine) {
		m.parent = ctx
	}
}

// New returns a machine with nothing selected and every level idle.
func New(opts ...Option) *Machine {
	m := &Machine{parent: context.Background()}
	for i := range m.levels {
		m.levels[i] = newLevelState()
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mount starts loading the country list. Calling it again while the list
// is loading or loaded does nothing.
func (m *Machine) Mount() []Request {
	if m.levels[Country].status() != Idle {
		return nil
	}
	return []Request{m.levels[Country].begin(m.parent, Country, "", "")}
}

// Select sets the value at level and returns the fetches the change
// requires. Choosing a country clears the state and city and loads the
// country's states; choosing a state clears the city and loads the
// state's cities. Re-selecting the current value and selecting below an
// unset level are no-ops. An empty value clears the level.
func (m *Machine) Select(level Level, value string) []Request {
	switch level {
	case Country:
		if value == m.sel.Country {
			return nil
		}
		m.sel = Selection{Country: value}
		m.levels[State].abandon()
		m.levels[City].abandon()
		m.err = ""
		if value == "" {
			return nil
		}
		return []Request{m.levels[State].begin(m.parent, State, value, "")}

	case State:
		if m.sel.Country == "" || value == m.sel.State {
			return nil
		}
		m.sel.State = value
		m.sel.City = ""
		m.levels[City].abandon()
		m.err = ""
		if value == "" {
			return nil
		}
		return []Request{m.levels[City].begin(m.parent, City, m.sel.Country, value)}

	case City:
		if m.sel.State == "" {
			return nil
		}
		m.sel.City = value
	}
	return nil
}

// Settle applies a fetch result. It returns false, changing nothing, when
// the result is stale (its token no longer matches) or was cancelled.
func (m *Machine) Settle(r Result) bool {
	if !r.Level.valid() {
		return false
	}
	ls := m.levels[r.Level]
	if r.Token != ls.token || ls.status() != Loading {
		return false
	}
	if r.Err != nil && (errors.Is(r.Err, directory.ErrCancelled) || errors.Is(r.Err, context.Canceled)) {
		return false
	}
	ls.release()

	if r.Err != nil {
		ls.fire(eventFail)
		for l := r.Level + 1; l <= City; l++ {
			m.levels[l].abandon()
		}
		m.err = failureMessage(r.Level, ls.country, ls.state, r.Err)
		return true
	}

	ls.fire(eventSucceed)
	ls.options = append([]string{}, r.Options...)
	return true
}

func failureMessage(level Level, country, state string, err error) string {
	switch level {
	case State:
		return fmt.Sprintf("Failed to load states for %s: %v", country, err)
	case City:
		return fmt.Sprintf("Failed to load cities for %s, %s: %v", state, country, err)
	}
	return fmt.Sprintf("Failed to load countries: %v", err)
}

// Reload retries a failed level for the current selection. It does
// nothing unless the level's last fetch failed.
func (m *Machine) Reload(level Level) []Request {
	if !level.valid() || m.levels[level].status() != Failed {
		return nil
	}
	m.err = ""
	ls := m.levels[level]
	switch level {
	case State:
		return []Request{ls.begin(m.parent, State, m.sel.Country, "")}
	case City:
		return []Request{ls.begin(m.parent, City, m.sel.Country, m.sel.State)}
	}
	return []Request{ls.begin(m.parent, Country, "", "")}
}

// Close cancels every in-flight fetch. Results arriving afterwards are
// discarded.
func (m *Machine) Close() {
	for _, ls := range m.levels {
		if ls.cancel != nil {
			ls.cancel()
			ls.cancel = nil
		}
		ls.token++
	}
}

// Selection returns the current selection.
func (m *Machine) Selection() Selection {
	return m.sel
}

// Selected returns the value chosen at level.
func (m *Machine) Selected(level Level) string {
	switch level {
	case Country:
		return m.sel.Country
	case State:
		return m.sel.State
	case City:
		return m.sel.City
	}
	return ""
}

// Options returns a copy of level's option list. It is empty unless the
// level is loaded.
func (m *Machine) Options(level Level) []string {
	if !level.valid() {
		return []string{}
	}
	return append([]string{}, m.levels[level].options...)
}

// Status returns level's load status.
func (m *Machine) Status(level Level) Status {
	if !level.valid() {
		return Idle
	}
	return m.levels[level].status()
}

// Err returns the most recent failure message, or "".
func (m *Machine) Err() string {
	return m.err
}

// Disabled reports whether level ignores input: its prerequisite is
// unset, or its own list is loading or failed to load.
func (m *Machine) Disabled(level Level) bool {
	switch level {
	case Country:
		return m.busy(Country)
	case State:
		return m.sel.Country == "" || m.busy(State)
	case City:
		return m.sel.State == "" || m.busy(City)
	}
	return true
}

func (m *Machine) busy(level Level) bool {
	st := m.Status(level)
	return st == Loading || st == Failed
}

// Complete reports whether all three levels are selected.
func (m *Machine) Complete() bool {
	return m.sel.Country != "" && m.sel.State != "" && m.sel.City != ""
}

// Summary returns the confirmation sentence for a complete selection,
// or "".
func (m *Machine) Summary() string {
	if !m.Complete() {
		return ""
	}
	return m.sel.Summary()
}

// Summary returns "You selected {city}, {state}, {country}".
func (s Selection) Summary() string {
	return fmt.Sprintf("You selected %s, %s, %s", s.City, s.State, s.Country)
}
