// Package constraint holds dependency version constraints for a module.
//
// Constraints are keyed by coordinate (group:artifact). A later write for the
// same coordinate wins; the replaced values are kept as provenance history so
// conflicts between fragments stay visible without failing the build.
package constraint

import (
	"sort"
	"sync"
)

// Override is a value that was replaced by a later write.
type Override struct {
	Version string `json:"version"`
	Source  string `json:"source"`
}

// Entry is the effective constraint for one coordinate.
type Entry struct {
	Coordinate string     `json:"coordinate"`
	Version    string     `json:"version"`
	Source     string     `json:"source"`
	History    []Override `json:"history,omitempty"`
}

// Set is a last-write-wins constraint set. Safe for concurrent use.
type Set struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{entries: make(map[string]*Entry)}
}

// Put records version for coordinate, attributed to source. It returns the
// replaced version and true when an existing, different value was overridden.
func (s *Set) Put(coordinate, version, source string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[coordinate]
	if !ok {
		s.entries[coordinate] = &Entry{Coordinate: coordinate, Version: version, Source: source}
		return "", false
	}
	if existing.Version == version && existing.Source == source {
		return "", false
	}

	previous := existing.Version
	existing.History = append(existing.History, Override{Version: existing.Version, Source: existing.Source})
	existing.Version = version
	existing.Source = source
	return previous, previous != version
}

// Get returns the effective version for coordinate.
func (s *Set) Get(coordinate string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[coordinate]
	if !ok {
		return "", false
	}
	return e.Version, true
}

// Len returns the number of constrained coordinates.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy of all entries sorted by coordinate.
func (s *Set) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		c := *e
		c.History = append([]Override(nil), e.History...)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Coordinate < out[j].Coordinate })
	return out
}
