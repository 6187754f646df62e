// Package snapshot saves resolved module states to a file and reports the
// semantic differences between a saved snapshot and the current build.
package snapshot

import (
	"fmt"
	"os"
	"sort"

	"sigs.k8s.io/yaml"

	"github.com/clusterlesshq/conventions/internal/core"
	oerrors "github.com/clusterlesshq/conventions/internal/errors"
	"github.com/clusterlesshq/conventions/internal/property"
)

// Snapshot is the saved result of one build invocation.
type Snapshot struct {
	BuildID    string              `json:"buildId"`
	Properties map[string]string   `json:"properties,omitempty"`
	Modules    []*core.ModuleState `json:"modules"`

	// Digests maps module names to ModuleDigest values.
	Digests map[string]string `json:"digests,omitempty"`

	// Digest covers every module state.
	Digest string `json:"digest,omitempty"`
}

// New returns a snapshot of properties and states. Credential properties are
// dropped and modules are sorted by name.
func New(buildID string, properties map[string]string, states []*core.ModuleState) *Snapshot {
	props := make(map[string]string, len(properties))
	for k, v := range properties {
		if !property.IsSecret(k) {
			props[k] = v
		}
	}
	modules := append([]*core.ModuleState(nil), states...)
	sort.Slice(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })

	digests := make(map[string]string, len(modules))
	for _, m := range modules {
		digests[m.Name] = ModuleDigest(m)
	}
	return &Snapshot{
		BuildID:    buildID,
		Properties: props,
		Modules:    modules,
		Digests:    digests,
		Digest:     Digest(digests),
	}
}

// Module returns the named module state.
func (s *Snapshot) Module(name string) (*core.ModuleState, bool) {
	for _, m := range s.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Write saves s to path as YAML.
func Write(path string, s *Snapshot) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

// Read loads a snapshot written by Write.
func Read(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("snapshot not found", path, "Create one with 'conv resolve --snapshot FILE'.")
		}
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	var s Snapshot
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return nil, &oerrors.DetailError{
			Type:     "invalid snapshot",
			Message:  err.Error(),
			Location: path,
			Cause:    oerrors.ErrValidation,
		}
	}
	return &s, nil
}
