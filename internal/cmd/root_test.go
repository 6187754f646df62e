package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/clusterlesshq/conventions/internal/errors"
	"github.com/clusterlesshq/conventions/internal/testutil"
)

// isolate points HOME and every CONV_ and credential variable away from the
// developer's environment.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"CONV_CONFIG", "CONV_WORKSPACE", "CONV_REPO_DIR", "CONV_SIGNING_KEY", "GPR_USERNAME", "GPR_TOKEN"} {
		t.Setenv(key, "")
	}
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *oerrors.ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %T: %v", err, err)
	return exitErr.Code
}

func commonsWorkspace(t *testing.T) string {
	t.Helper()
	return testutil.WriteWorkspace(t, testutil.CommonsWorkspace())
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()

	assert.Equal(t, "conv", root.Use)
	for _, name := range []string{"workspace", "config", "define", "output", "verbose", "timestamps"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), "missing flag %s", name)
	}

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"resolve", "describe", "publish", "diff", "vet", "config", "version"}, names)
}

func TestRoot_InvalidOutputFormat(t *testing.T) {
	isolate(t)
	_, err := execute(t, "vet", "-w", commonsWorkspace(t), "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
	assert.Equal(t, oerrors.ExitGeneralError, exitCode(t, err))
}

func TestRoot_InvalidSystemProperty(t *testing.T) {
	isolate(t)
	_, err := execute(t, "vet", "-w", commonsWorkspace(t), "-D", "=oops")
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitValidationError, exitCode(t, err))
}

func TestRoot_WorkspaceFromConfigFile(t *testing.T) {
	isolate(t)
	ws := commonsWorkspace(t)
	configPath := testutil.WriteFile(t, t.TempDir(), "config.yaml", "workspace: "+ws+"\n")

	out, err := execute(t, "vet", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Workspace valid")
}

func TestRoot_SystemPropertiesFromConfigFile(t *testing.T) {
	isolate(t)
	ws := commonsWorkspace(t)
	configPath := testutil.WriteFile(t, t.TempDir(), "config.yaml",
		"systemProperties:\n  - publish.repo.userName=octocat\n")

	out, err := execute(t, "describe", "--config", configPath, "-w", ws, "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "property:repoUserName")
}

func TestVersionCmd(t *testing.T) {
	isolate(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "conv version")
	assert.Contains(t, out, "CUE SDK")
}

func TestVet(t *testing.T) {
	isolate(t)
	out, err := execute(t, "vet", "-w", commonsWorkspace(t))
	require.NoError(t, err)

	assert.Contains(t, out, "clusterless-commons-core")
	assert.Contains(t, out, "clusterless-commons-aws")
	assert.Contains(t, out, "Workspace valid (2 modules, 2 publishable)")
}

func TestVet_MissingWorkspace(t *testing.T) {
	isolate(t)
	_, err := execute(t, "vet", "-w", filepath.Join(t.TempDir(), "nowhere"))
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitNotFound, exitCode(t, err))
}

func TestVet_UnknownPlugin(t *testing.T) {
	isolate(t)
	ws := testutil.WriteWorkspace(t, map[string]string{
		"workspace.cue": `
fragments: base: plugins: ["kotlin"]
modules: core: fragments: ["base"]
`,
	})

	_, err := execute(t, "vet", "-w", ws)
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrUnknownPlugin)
	assert.Equal(t, oerrors.ExitConfigurationError, exitCode(t, err))
}

func TestVet_CyclicFragment(t *testing.T) {
	isolate(t)
	ws := testutil.WriteWorkspace(t, map[string]string{
		"workspace.cue": `
fragments: {
	a: plugins: ["b"]
	b: plugins: ["a"]
}
modules: core: fragments: ["a"]
`,
	})

	_, err := execute(t, "vet", "-w", ws)
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrCyclicFragment)
	assert.Contains(t, err.Error(), "a -> b -> a")
	assert.Equal(t, oerrors.ExitConfigurationError, exitCode(t, err))
}
