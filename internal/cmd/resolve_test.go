package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterlesshq/conventions/internal/core"
	oerrors "github.com/clusterlesshq/conventions/internal/errors"
	"github.com/clusterlesshq/conventions/internal/snapshot"
	"github.com/clusterlesshq/conventions/internal/testutil"
)

func TestResolve_YAML(t *testing.T) {
	isolate(t)
	out, err := execute(t, "resolve", "-w", commonsWorkspace(t))
	require.NoError(t, err)

	assert.Contains(t, out, "name: clusterless-commons-core")
	assert.Contains(t, out, "name: clusterless-commons-aws")
	assert.Contains(t, out, "languageVersion: 17")
	assert.Contains(t, out, "---")
}

func TestResolve_JSONSelectsModules(t *testing.T) {
	isolate(t)
	out, err := execute(t, "resolve", "clusterless-commons-aws", "-w", commonsWorkspace(t), "-o", "json")
	require.NoError(t, err)

	var states []core.ModuleState
	require.NoError(t, json.Unmarshal([]byte(out), &states))
	require.Len(t, states, 1)

	aws := states[0]
	assert.Equal(t, "clusterless-commons-aws", aws.Name)
	assert.Equal(t, "module:clusterless-commons-aws", aws.Fragments[len(aws.Fragments)-1])
	assert.Equal(t, 17, aws.Toolchain.LanguageVersion)
	assert.Equal(t, "io.clusterless:clusterless-commons-core", aws.Dependencies[0].Coordinate)
	assert.Equal(t, "0.11", aws.Dependencies[0].Version)
}

func TestResolve_Table(t *testing.T) {
	isolate(t)
	out, err := execute(t, "resolve", "-w", commonsWorkspace(t), "-o", "table")
	require.NoError(t, err)

	assert.Contains(t, out, "MODULE")
	assert.Contains(t, out, "TOOLCHAIN")
	assert.Contains(t, out, "clusterless-commons-core")
	assert.Contains(t, out, "java-library-conventions")
}

func TestResolve_UnknownModule(t *testing.T) {
	isolate(t)
	_, err := execute(t, "resolve", "nope", "-w", commonsWorkspace(t))
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitNotFound, exitCode(t, err))
}

func TestResolve_SnapshotAndDiff(t *testing.T) {
	isolate(t)
	ws := commonsWorkspace(t)
	snapPath := filepath.Join(t.TempDir(), "snapshot.yaml")

	_, err := execute(t, "resolve", "-w", ws, "--snapshot", snapPath, "-D", "publish.repo.password=hunter2")
	require.NoError(t, err)

	snap, err := snapshot.Read(snapPath)
	require.NoError(t, err)
	assert.Len(t, snap.Modules, 2)
	assert.NotContains(t, snap.Properties, "repoPassword")

	out, err := execute(t, "diff", snapPath, "-w", ws)
	require.NoError(t, err)
	assert.Contains(t, out, "No changes detected.")

	out, err = execute(t, "diff", snapPath, "-w", ws, "-D", "build.vcs.branch=release")
	require.NoError(t, err)
	assert.Contains(t, out, "properties")
	assert.Contains(t, out, "Summary:")
}

func TestResolve_CredentialsNotExpandedIntoTasks(t *testing.T) {
	isolate(t)
	ws := testutil.WriteWorkspace(t, map[string]string{
		"workspace.cue": `
fragments: creds: {
	plugins: ["maven-publish"]
	properties: [{key: "repoPassword", systemProperty: "publish.repo.password"}]
	tasks: [{task: "publish", set: auth: "${repoPassword}"}]
}
modules: core: fragments: ["creds"]
`,
	})
	snapPath := filepath.Join(t.TempDir(), "snapshot.yaml")

	out, err := execute(t, "resolve", "-w", ws, "--snapshot", snapPath, "-D", "publish.repo.password=hunter2")
	require.NoError(t, err)
	assert.NotContains(t, out, "hunter2")

	data, err := os.ReadFile(snapPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hunter2")
	assert.Contains(t, string(data), "${repoPassword}")
}

func TestDiff_MissingSnapshot(t *testing.T) {
	isolate(t)
	_, err := execute(t, "diff", filepath.Join(t.TempDir(), "missing.yaml"), "-w", commonsWorkspace(t))
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitNotFound, exitCode(t, err))
}
