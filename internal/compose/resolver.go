// Package compose applies convention fragments to modules.
//
// A module's declared fragments are applied in order, followed by the
// module's own overrides as an implicit final fragment. Fragments may apply
// other fragments as prerequisites; each fragment and each plugin is applied
// at most once per module.
package compose

import (
	"os"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/clusterlesshq/conventions/internal/constraint"
	"github.com/clusterlesshq/conventions/internal/core"
	"github.com/clusterlesshq/conventions/internal/output"
	"github.com/clusterlesshq/conventions/internal/plugin"
	"github.com/clusterlesshq/conventions/internal/property"
	"github.com/clusterlesshq/conventions/internal/task"
)

// seedModule is the module name used in errors raised while seeding.
const seedModule = "<seed>"

// Options configures a Resolver.
type Options struct {
	// SystemProperties are the -D values property writes may read.
	SystemProperties map[string]string

	// LookupEnv reads environment variables. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Resolver composes modules from a fragment catalog. Compose may be called
// concurrently for different modules.
//
// Each module writes properties to its own scope of the shared store. A
// module's writes reach the shared store, and so the modules composed after
// it, when Commit is called for it.
type Resolver struct {
	fragments map[string]*core.Fragment
	plugins   *plugin.Registry
	store     *property.Store
	sysProps  map[string]string
	lookupEnv func(string) (string, bool)

	mu       sync.Mutex
	scopes   map[string]*property.Store
	composed map[string]map[string]string
}

// NewResolver returns a resolver over the given fragments and plugins that
// writes properties to store.
func NewResolver(fragments map[string]*core.Fragment, plugins *plugin.Registry, store *property.Store, opts Options) *Resolver {
	lookupEnv := opts.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	return &Resolver{
		fragments: fragments,
		plugins:   plugins,
		store:     store,
		sysProps:  opts.SystemProperties,
		lookupEnv: lookupEnv,
		scopes:    make(map[string]*property.Store),
		composed:  make(map[string]map[string]string),
	}
}

// Seed applies the named fragments once, outside any module, so their
// property writes are visible to every module composed afterwards.
func (r *Resolver) Seed(names []string) error {
	c := r.newComposition(seedModule, r.store)
	for _, name := range names {
		if err := c.applyNamed(name); err != nil {
			return err
		}
	}
	return nil
}

// Compose applies the module's fragments and overrides and returns its state.
// The state carries the properties the module observed when its composition
// ended.
func (r *Resolver) Compose(decl core.ModuleDecl) (*core.ModuleState, error) {
	c := r.newComposition(decl.Name, r.store.Scope())

	for _, name := range decl.Fragments {
		if err := c.applyNamed(name); err != nil {
			return nil, err
		}
	}

	if decl.Overrides != nil {
		overrides := *decl.Overrides
		overrides.Name = "module:" + decl.Name
		if err := c.applyFragment(&overrides); err != nil {
			return nil, err
		}
	}

	state := c.state()
	state.Dependencies = c.resolveDependencies(decl.Dependencies)

	r.mu.Lock()
	r.scopes[decl.Name] = c.props
	r.composed[decl.Name] = state.Properties
	r.mu.Unlock()

	c.log.Debug("module composed", "fragments", len(state.Fragments), "plugins", len(state.Plugins), "constraints", len(state.Constraints))
	return state, nil
}

// Commit copies the property writes of the named modules into the shared
// store, in the order given. Modules not composed are skipped.
func (r *Resolver) Commit(modules ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range modules {
		scope, ok := r.scopes[name]
		if !ok {
			continue
		}
		scope.Commit()
		delete(r.scopes, name)
	}
}

// moduleProperties returns the properties a composed module observed.
func (r *Resolver) moduleProperties(name string) (map[string]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	props, ok := r.composed[name]
	return props, ok
}

// composition is the in-progress configuration of a single module.
type composition struct {
	r      *Resolver
	module string
	log    *log.Logger
	props  *property.Store

	applied   sets.Set[string]
	fragments []string
	visiting  []string

	plugins orderedSet

	constraints  *constraint.Set
	tasks        *task.Registry
	toolchain    *core.Toolchain
	testing      *core.TestSuite
	repositories orderedSet
	artifacts    orderedSet
	publishing   *core.PublishingSpec
}

func (r *Resolver) newComposition(module string, props *property.Store) *composition {
	return &composition{
		r:            r,
		module:       module,
		log:          output.ModuleLogger(module),
		props:        props,
		applied:      sets.New[string](),
		plugins:      newOrderedSet(),
		constraints:  constraint.NewSet(),
		tasks:        task.NewRegistry(task.NewExpander(module, props.Lookup)),
		repositories: newOrderedSet(),
		artifacts:    newOrderedSet(),
	}
}

func (c *composition) applyNamed(name string) error {
	f, ok := c.r.fragments[name]
	if !ok {
		return &UnknownFragmentError{ModuleName: c.module, Fragment: name}
	}
	return c.applyFragment(f)
}

func (c *composition) applyFragment(f *core.Fragment) error {
	if c.applied.Has(f.Name) {
		c.log.Debug("fragment already applied", "fragment", f.Name)
		return nil
	}
	for i, name := range c.visiting {
		if name == f.Name {
			path := append(append([]string(nil), c.visiting[i:]...), f.Name)
			return &CyclicFragmentError{ModuleName: c.module, Path: path}
		}
	}

	c.visiting = append(c.visiting, f.Name)
	defer func() { c.visiting = c.visiting[:len(c.visiting)-1] }()

	for _, id := range f.Plugins {
		if prereq, ok := c.r.fragments[id]; ok {
			if err := c.applyFragment(prereq); err != nil {
				return err
			}
			continue
		}
		if err := c.applyPlugin(f.Name, id); err != nil {
			return err
		}
	}

	c.mergeConstraints(f.Name, f.CatalogConstraints)
	c.mergeConstraints(f.Name, f.Constraints)

	for _, m := range f.Tasks {
		c.tasks.Configure(m.Task, task.Mutation{Source: f.Name, Set: m.Set})
	}

	for _, w := range f.Properties {
		c.writeProperty(f.Name, w)
	}

	if f.Toolchain != nil {
		tc := *f.Toolchain
		c.toolchain = &tc
	}
	if f.Testing != nil {
		ts := *f.Testing
		c.testing = &ts
	}
	c.repositories.add(f.Repositories...)
	for _, artifact := range f.Artifacts {
		if c.artifacts.add(artifact) {
			c.tasks.Register(artifact + "Jar")
		}
	}
	if f.Publishing != nil {
		c.publishing = c.publishing.Merge(f.Publishing)
	}

	c.applied.Insert(f.Name)
	c.fragments = append(c.fragments, f.Name)
	c.log.Debug("fragment applied", "fragment", f.Name)
	return nil
}

func (c *composition) applyPlugin(fragment, id string) error {
	if c.plugins.has(id) {
		return nil
	}
	def, ok := c.r.plugins.Lookup(id)
	if !ok {
		return &UnknownPluginError{ModuleName: c.module, Fragment: fragment, Plugin: id}
	}

	for _, implied := range def.Implies {
		if err := c.applyPlugin(fragment, implied); err != nil {
			return err
		}
	}

	c.plugins.add(id)
	for _, name := range def.Tasks {
		c.tasks.Register(name)
	}
	c.log.Debug("plugin applied", "plugin", id, "fragment", fragment)
	return nil
}

func (c *composition) mergeConstraints(source string, entries map[string]string) {
	coordinates := make([]string, 0, len(entries))
	for coordinate := range entries {
		coordinates = append(coordinates, coordinate)
	}
	sort.Strings(coordinates)

	for _, coordinate := range coordinates {
		version := entries[coordinate]
		if previous, overridden := c.constraints.Put(coordinate, version, source); overridden {
			c.log.Debug("constraint overridden", "coordinate", coordinate, "from", previous, "to", version, "source", source)
		}
	}
}

func (c *composition) writeProperty(source string, w core.PropertyWrite) {
	switch {
	case w.Value != nil:
		c.props.Set(w.Key, *w.Value)
	case w.SystemProperty != "":
		if v, ok := c.r.sysProps[w.SystemProperty]; ok {
			c.props.Set(w.Key, v)
		} else {
			c.props.Clear(w.Key)
		}
	case w.Env != "":
		if v, ok := c.r.lookupEnv(w.Env); ok {
			c.props.Set(w.Key, v)
		} else {
			c.props.Clear(w.Key)
		}
	default:
		c.props.Clear(w.Key)
	}
	c.log.Debug("property written", "key", w.Key, "source", source)
}

func (c *composition) resolveDependencies(deps []core.Dependency) []core.ResolvedDependency {
	if len(deps) == 0 {
		return nil
	}
	out := make([]core.ResolvedDependency, 0, len(deps))
	for _, d := range deps {
		rd := core.ResolvedDependency{
			Configuration: d.Configuration,
			Coordinate:    d.Coordinate,
			Version:       d.Version,
			Project:       d.Project,
		}
		if d.Project != "" {
			props, ok := c.r.moduleProperties(d.Project)
			if !ok {
				props = c.props.Snapshot()
			}
			rd.Coordinate = props[property.KeyGroup] + ":" + d.Project
			if rd.Version == "" {
				rd.Version = props[property.KeyVersion]
			}
		} else if rd.Version == "" {
			if v, ok := c.constraints.Get(d.Coordinate); ok {
				rd.Version = v
				rd.Constrained = true
			}
		}
		out = append(out, rd)
	}
	return out
}

func (c *composition) state() *core.ModuleState {
	return &core.ModuleState{
		Name:         c.module,
		Fragments:    append([]string(nil), c.fragments...),
		Plugins:      c.plugins.list(),
		Constraints:  c.constraints.Entries(),
		Toolchain:    c.toolchain,
		Testing:      c.testing,
		Repositories: c.repositories.list(),
		Artifacts:    c.artifacts.list(),
		Tasks:        c.tasks.States(),
		Publishing:   c.publishing.Clone(),
		Properties:   c.props.Snapshot(),
	}
}

// orderedSet is a set that remembers insertion order.
type orderedSet struct {
	seen  sets.Set[string]
	items []string
}

func newOrderedSet() orderedSet {
	return orderedSet{seen: sets.New[string]()}
}

// add inserts items not yet present. Returns true if any item was new.
func (s *orderedSet) add(items ...string) bool {
	added := false
	for _, item := range items {
		if s.seen.Has(item) {
			continue
		}
		s.seen.Insert(item)
		s.items = append(s.items, item)
		added = true
	}
	return added
}

func (s *orderedSet) has(item string) bool {
	return s.seen.Has(item)
}

func (s *orderedSet) list() []string {
	return append([]string(nil), s.items...)
}
