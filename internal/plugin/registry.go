// Package plugin holds the plugins fragments may apply: the built-in core
// plugins plus any the workspace declares.
package plugin

import (
	"fmt"
	"sort"

	"github.com/clusterlesshq/conventions/internal/core"
	"github.com/clusterlesshq/conventions/internal/dag"
)

// Core plugin identifiers.
const (
	Java         = "java"
	JavaLibrary  = "java-library"
	MavenPublish = "maven-publish"
	Signing      = "signing"
)

// Builtins returns the core plugins.
func Builtins() []core.PluginDef {
	return []core.PluginDef{
		{
			ID:    Java,
			Tasks: []string{"compileJava", "processResources", "classes", "jar", "javadoc", "compileTestJava", "test", "build"},
		},
		{
			ID:      JavaLibrary,
			Implies: []string{Java},
		},
		{
			ID:    MavenPublish,
			Tasks: []string{"publish", "publishToMavenLocal"},
		},
		{
			ID:    Signing,
			Tasks: []string{"sign"},
		},
	}
}

// Registry resolves plugin identifiers to definitions.
type Registry struct {
	plugins map[string]core.PluginDef
}

// NewRegistry returns a registry holding the builtins and the given workspace
// plugins. A workspace plugin may not redefine a builtin, and implies edges
// may not form a cycle.
func NewRegistry(workspace map[string]core.PluginDef) (*Registry, error) {
	r := &Registry{plugins: make(map[string]core.PluginDef)}
	for _, def := range Builtins() {
		r.plugins[def.ID] = def
	}

	ids := make([]string, 0, len(workspace))
	for id := range workspace {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		def := workspace[id]
		if def.ID == "" {
			def.ID = id
		}
		if def.ID != id {
			return nil, fmt.Errorf("plugin %q declared under key %q", def.ID, id)
		}
		if _, exists := r.plugins[id]; exists {
			return nil, fmt.Errorf("plugin %q is a core plugin and cannot be redeclared", id)
		}
		r.plugins[id] = def
	}

	if err := r.checkImplies(); err != nil {
		return nil, err
	}
	return r, nil
}

// checkImplies rejects plugins that imply themselves, directly or through
// other plugins. Implied ids that are not registered are reported when applied.
func (r *Registry) checkImplies() error {
	g := dag.New()
	for _, id := range r.IDs() {
		g.AddNode(id)
	}
	for _, id := range r.IDs() {
		for _, implied := range r.plugins[id].Implies {
			if g.HasNode(implied) {
				g.AddEdge(implied, id)
			}
		}
	}
	if _, err := g.TopologicalSort(); err != nil {
		return fmt.Errorf("plugins imply each other: %w", err)
	}
	return nil
}

// Lookup returns the definition for id.
func (r *Registry) Lookup(id string) (core.PluginDef, bool) {
	def, ok := r.plugins[id]
	return def, ok
}

// IDs returns all registered plugin identifiers, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.plugins))
	for id := range r.plugins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
