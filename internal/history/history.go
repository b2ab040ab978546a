// Package history records confirmed location selections so that
// `locsel pick --last` can prefill the previous choice and
// `locsel history` can list recent ones.
//
// Only confirmed triples are stored; option lists fetched from the
// directory service are never persisted.
package history

import (
	"errors"
	"os"
	"sort"
	"time"

	"github.com/raphi011/locsel/internal/storage"
)

// DefaultMaxEntries caps the number of remembered selections when the
// caller passes a non-positive limit.
const DefaultMaxEntries = 20

// Entry is one confirmed selection.
type Entry struct {
	Country  string    `json:"country"`
	State    string    `json:"state"`
	City     string    `json:"city"`
	LastUsed time.Time `json:"last_used"`
	UseCount int       `json:"use_count"`
}

// Matches reports whether the entry holds the given triple.
func (e Entry) Matches(country, state, city string) bool {
	return e.Country == country && e.State == state && e.City == city
}

// History stores confirmed selections, most recent first after SortByRecency.
type History struct {
	Entries []Entry `json:"entries"`
}

// Load reads the history from path. A missing file yields an empty history.
func Load(path string) (*History, error) {
	var h History
	if err := storage.LoadJSON(path, &h); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &History{}, nil
		}
		return nil, err
	}
	return &h, nil
}

// Save writes the history to path atomically.
func (h *History) Save(path string) error {
	return storage.SaveJSON(path, h)
}

// Record adds or bumps the triple and trims the history to limit entries,
// dropping the least recently used ones.
func (h *History) Record(country, state, city string, limit int) {
	if limit <= 0 {
		limit = DefaultMaxEntries
	}
	now := time.Now()
	if e := h.Find(country, state, city); e != nil {
		e.LastUsed = now
		e.UseCount++
	} else {
		h.Entries = append(h.Entries, Entry{
			Country:  country,
			State:    state,
			City:     city,
			LastUsed: now,
			UseCount: 1,
		})
	}
	h.SortByRecency()
	if len(h.Entries) > limit {
		h.Entries = h.Entries[:limit]
	}
}

// Find returns a pointer to the entry for the triple, or nil.
func (h *History) Find(country, state, city string) *Entry {
	for i := range h.Entries {
		if h.Entries[i].Matches(country, state, city) {
			return &h.Entries[i]
		}
	}
	return nil
}

// SortByRecency orders entries by LastUsed, newest first.
func (h *History) SortByRecency() {
	sort.SliceStable(h.Entries, func(i, j int) bool {
		return h.Entries[i].LastUsed.After(h.Entries[j].LastUsed)
	})
}

// MostRecent returns the most recently used entry.
func (h *History) MostRecent() (Entry, bool) {
	if len(h.Entries) == 0 {
		return Entry{}, false
	}
	best := h.Entries[0]
	for _, e := range h.Entries[1:] {
		if e.LastUsed.After(best.LastUsed) {
			best = e
		}
	}
	return best, true
}

// RecordSelection loads the history at path, records the triple and saves it.
func RecordSelection(path, country, state, city string, limit int) error {
	h, err := Load(path)
	if err != nil {
		return err
	}
	h.Record(country, state, city, limit)
	return h.Save(path)
}

// Clear removes the history file. A missing file is not an error.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
