// Package task tracks a module's tasks and the configuration fragments apply
// to them.
//
// Configuration is configure-on-creation: a mutation for a task that does not
// exist yet is queued and applied, in order, when a plugin registers the task.
// A mutation for an existing task applies immediately.
package task

import (
	"sort"

	"github.com/clusterlesshq/conventions/internal/core"
	"github.com/clusterlesshq/conventions/internal/output"
)

// Mutation is a set of field changes for one task.
type Mutation struct {
	// Source names the fragment that declared the mutation.
	Source string
	Set    map[string]any
}

type entry struct {
	config map[string]any
}

// Registry holds the tasks of one module. Not safe for concurrent use; a
// module is configured by a single goroutine.
type Registry struct {
	tasks   map[string]*entry
	order   []string
	pending map[string][]Mutation
	expand  Expander
}

// NewRegistry returns an empty registry. String values of applied mutations
// are passed through expand at the time they are applied.
func NewRegistry(expand Expander) *Registry {
	if expand == nil {
		expand = func(s string) string { return s }
	}
	return &Registry{
		tasks:   make(map[string]*entry),
		pending: make(map[string][]Mutation),
		expand:  expand,
	}
}

// Register creates the task if it does not exist and applies any queued
// mutations. Returns false if the task already existed.
func (r *Registry) Register(name string) bool {
	if _, ok := r.tasks[name]; ok {
		return false
	}

	e := &entry{config: make(map[string]any)}
	r.tasks[name] = e
	r.order = append(r.order, name)

	queued := r.pending[name]
	delete(r.pending, name)
	for _, m := range queued {
		r.apply(name, e, m)
	}
	return true
}

// Configure applies m to the named task, or queues it until the task is registered.
func (r *Registry) Configure(name string, m Mutation) {
	if e, ok := r.tasks[name]; ok {
		r.apply(name, e, m)
		return
	}
	output.Debug("task mutation deferred", "task", name, "source", m.Source)
	r.pending[name] = append(r.pending[name], m)
}

// Exists reports whether the task was registered.
func (r *Registry) Exists(name string) bool {
	_, ok := r.tasks[name]
	return ok
}

// Config returns a copy of the task's effective configuration.
func (r *Registry) Config(name string) (map[string]any, bool) {
	e, ok := r.tasks[name]
	if !ok {
		return nil, false
	}
	return copyMap(e.config), true
}

// States returns registered tasks in registration order, followed by tasks
// that only have pending mutations, sorted by name.
func (r *Registry) States() []core.TaskState {
	states := make([]core.TaskState, 0, len(r.order)+len(r.pending))
	for _, name := range r.order {
		states = append(states, core.TaskState{Name: name, Config: copyMap(r.tasks[name].config)})
	}

	pending := make([]string, 0, len(r.pending))
	for name := range r.pending {
		pending = append(pending, name)
	}
	sort.Strings(pending)
	for _, name := range pending {
		states = append(states, core.TaskState{Name: name, Pending: true})
	}
	return states
}

func (r *Registry) apply(name string, e *entry, m Mutation) {
	for k, v := range m.Set {
		e.config[k] = expandValue(v, r.expand)
	}
	output.Debug("task mutation applied", "task", name, "source", m.Source, "fields", len(m.Set))
}

func expandValue(v any, expand Expander) any {
	switch val := v.(type) {
	case string:
		return expand(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = expandValue(inner, expand)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = expandValue(inner, expand)
		}
		return out
	default:
		return v
	}
}

// copyMap returns a deep copy of m. Nested maps and lists are copied too.
func copyMap(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = copyValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = copyValue(inner)
		}
		return out
	default:
		return v
	}
}
