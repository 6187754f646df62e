package core

import "github.com/clusterlesshq/conventions/internal/constraint"

// ModuleState is the result of composing every fragment onto a module.
type ModuleState struct {
	Name         string               `json:"name"`
	Fragments    []string             `json:"fragments"`
	Plugins      []string             `json:"plugins"`
	Constraints  []constraint.Entry   `json:"constraints,omitempty"`
	Dependencies []ResolvedDependency `json:"dependencies,omitempty"`
	Toolchain    *Toolchain           `json:"toolchain,omitempty"`
	Testing      *TestSuite           `json:"testing,omitempty"`
	Repositories []string             `json:"repositories,omitempty"`
	Artifacts    []string             `json:"artifacts,omitempty"`
	Tasks        []TaskState          `json:"tasks,omitempty"`
	Publishing   *PublishingSpec      `json:"publishing,omitempty"`

	// Properties are the property values the module observed when its
	// composition ended. They may hold credentials and are never encoded.
	Properties map[string]string `json:"-"`
}

// ResolvedDependency is a Dependency with its version settled.
type ResolvedDependency struct {
	Configuration string `json:"configuration"`
	Coordinate    string `json:"coordinate"`
	Version       string `json:"version,omitempty"`
	Project       string `json:"project,omitempty"`

	// Constrained is true when the version came from a dependency constraint.
	Constrained bool `json:"constrained,omitempty"`
}

// TaskState is a task and its effective configuration. Pending tasks had
// mutations registered but were never created by a plugin.
type TaskState struct {
	Name    string         `json:"name"`
	Config  map[string]any `json:"config,omitempty"`
	Pending bool           `json:"pending,omitempty"`
}

// HasPlugin reports whether plugin id was applied to the module.
func (s *ModuleState) HasPlugin(id string) bool {
	for _, p := range s.Plugins {
		if p == id {
			return true
		}
	}
	return false
}

// Task returns the named task state.
func (s *ModuleState) Task(name string) (TaskState, bool) {
	for _, t := range s.Tasks {
		if t.Name == name {
			return t, true
		}
	}
	return TaskState{}, false
}
