// Package property provides the build-scoped property store shared by every
// convention fragment applied during one invocation.
package property

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Well-known property keys.
const (
	KeyGroup         = "group"
	KeyVersion       = "version"
	KeyRepoUserName  = "repoUserName"
	KeyRepoPassword  = "repoPassword"
	KeyCurrentCommit = "currentCommit"
	KeyCurrentBranch = "currentBranch"
)

// IsSecret reports whether key holds a credential. Secret values are never
// expanded into task configuration or written to snapshots.
func IsSecret(key string) bool {
	return key == KeyRepoUserName || key == KeyRepoPassword
}

// Value is a property value that may be absent.
type Value struct {
	value   string
	present bool
}

// Absent is the value returned for keys that were never set or were cleared.
var Absent = Value{}

// Of returns a present value.
func Of(s string) Value {
	return Value{value: s, present: true}
}

// IsAbsent reports whether the value is absent.
func (v Value) IsAbsent() bool {
	return !v.present
}

// String returns the value, or "" when absent.
func (v Value) String() string {
	return v.value
}

// OrElse returns the value when present, otherwise def.
func (v Value) OrElse(def string) string {
	if v.present {
		return v.value
	}
	return def
}

// Store is a mutable key/value store scoped to a single build invocation.
// Reads always observe the most recent write. Safe for concurrent use.
//
// A store created by Scope layers its own writes over a parent: keys it never
// wrote fall through to the parent, and its writes reach the parent only on
// Commit.
type Store struct {
	mu      sync.RWMutex
	buildID string
	parent  *Store
	values  map[string]Value
}

// NewStore creates an empty store with a fresh build id.
func NewStore() *Store {
	return &Store{
		buildID: uuid.NewString(),
		values:  make(map[string]Value),
	}
}

// Scope returns a store layered over s that shares its build id.
func (s *Store) Scope() *Store {
	return &Store{
		buildID: s.buildID,
		parent:  s,
		values:  make(map[string]Value),
	}
}

// Commit copies every write made to the scope, clears included, into its
// parent. It is a no-op on a root store.
func (s *Store) Commit() {
	if s.parent == nil {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.values {
		s.parent.Put(k, v)
	}
}

// BuildID identifies the build invocation the store belongs to.
func (s *Store) BuildID() string {
	return s.buildID
}

// Set overwrites key unconditionally.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = Of(value)
}

// Clear records key as explicitly absent.
func (s *Store) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = Absent
}

// Put stores v as is, preserving absence.
func (s *Store) Put(key string, v Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = v
}

// Get returns the last value written for key, or Absent.
func (s *Store) Get(key string) Value {
	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	if ok {
		return v
	}
	if s.parent != nil {
		return s.parent.Get(key)
	}
	return Absent
}

// Lookup returns the value for key and whether it is present.
func (s *Store) Lookup(key string) (string, bool) {
	v := s.Get(key)
	return v.value, v.present
}

// Snapshot returns a copy of all present values, including those a scope
// inherits from its parent.
func (s *Store) Snapshot() map[string]string {
	out := make(map[string]string)
	if s.parent != nil {
		out = s.parent.Snapshot()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.values {
		if v.present {
			out[k] = v.value
		} else {
			delete(out, k)
		}
	}
	return out
}

// Keys returns the sorted keys of all present values.
func (s *Store) Keys() []string {
	snap := s.Snapshot()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
