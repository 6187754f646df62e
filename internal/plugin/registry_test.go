package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterlesshq/conventions/internal/core"
	"github.com/clusterlesshq/conventions/internal/dag"
	oerrors "github.com/clusterlesshq/conventions/internal/errors"
)

func TestNewRegistry_Builtins(t *testing.T) {
	r, err := NewRegistry(nil)
	require.NoError(t, err)

	lib, ok := r.Lookup(JavaLibrary)
	require.True(t, ok)
	assert.Equal(t, []string{Java}, lib.Implies)

	java, ok := r.Lookup(Java)
	require.True(t, ok)
	assert.Contains(t, java.Tasks, "javadoc")

	_, ok = r.Lookup("io.github.gradle-nexus.publish-plugin")
	assert.False(t, ok)
}

func TestNewRegistry_WorkspacePlugins(t *testing.T) {
	r, err := NewRegistry(map[string]core.PluginDef{
		"io.github.gradle-nexus.publish-plugin": {Tasks: []string{"publishToSonatype"}},
	})
	require.NoError(t, err)

	def, ok := r.Lookup("io.github.gradle-nexus.publish-plugin")
	require.True(t, ok)
	assert.Equal(t, "io.github.gradle-nexus.publish-plugin", def.ID)
	assert.Equal(t, []string{"publishToSonatype"}, def.Tasks)
	assert.Contains(t, r.IDs(), "io.github.gradle-nexus.publish-plugin")
}

func TestNewRegistry_Errors(t *testing.T) {
	tests := []struct {
		name    string
		plugins map[string]core.PluginDef
	}{
		{"redeclare builtin", map[string]core.PluginDef{"java": {}}},
		{"id mismatch", map[string]core.PluginDef{"a": {ID: "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.plugins)
			assert.Error(t, err)
		})
	}
}

func TestNewRegistry_ImpliesCycle(t *testing.T) {
	tests := []struct {
		name    string
		plugins map[string]core.PluginDef
	}{
		{"self", map[string]core.PluginDef{"x": {Implies: []string{"x"}}}},
		{"pair", map[string]core.PluginDef{"x": {Implies: []string{"y"}}, "y": {Implies: []string{"x"}}}},
		{"through builtin", map[string]core.PluginDef{"x": {Implies: []string{JavaLibrary, "y"}}, "y": {Implies: []string{"x"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.plugins)
			require.Error(t, err)
			assert.True(t, errors.Is(err, oerrors.ErrValidation))

			var cycleErr *dag.CycleError
			require.True(t, errors.As(err, &cycleErr))
			assert.Contains(t, cycleErr.Cycle, "x")
		})
	}
}

func TestNewRegistry_ImpliesChain(t *testing.T) {
	r, err := NewRegistry(map[string]core.PluginDef{
		"x": {Implies: []string{"y", JavaLibrary, "org.example.unregistered"}},
		"y": {Tasks: []string{"yTask"}},
	})
	require.NoError(t, err)
	assert.Contains(t, r.IDs(), "x")
}
