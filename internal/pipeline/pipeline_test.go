package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterlesshq/conventions/internal/compose"
	"github.com/clusterlesshq/conventions/internal/dag"
	oerrors "github.com/clusterlesshq/conventions/internal/errors"
	"github.com/clusterlesshq/conventions/internal/property"
	"github.com/clusterlesshq/conventions/internal/testutil"
)

func noEnv(string) (string, bool) { return "", false }

func TestRun_CommonsWorkspace(t *testing.T) {
	root := testutil.WriteWorkspace(t, testutil.CommonsWorkspace())

	result, err := NewPipeline(nil).Run(context.Background(), Options{
		Root:             root,
		SystemProperties: map[string]string{"build.vcs.number": "abc123", "publish.repo.userName": "octocat"},
		LookupEnv:        noEnv,
	})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"clusterless-commons-core"}, {"clusterless-commons-aws"}}, result.Levels)
	require.Len(t, result.Modules, 2)

	core, ok := result.Module("clusterless-commons-core")
	require.True(t, ok)
	aws, ok := result.Module("clusterless-commons-aws")
	require.True(t, ok)

	assert.Equal(t, 11, core.Toolchain.LanguageVersion)
	assert.Equal(t, 17, aws.Toolchain.LanguageVersion)
	assert.Equal(t, []string{"java", "java-library", "maven-publish", "signing"}, core.Plugins)

	require.Len(t, core.Dependencies, 2)
	assert.Equal(t, "31.1-jre", core.Dependencies[0].Version, "catalog constraint applies")
	assert.Equal(t, "24.0.0", core.Dependencies[1].Version, "inline constraint applies")
	assert.Equal(t, "io.clusterless:clusterless-commons-core", aws.Dependencies[0].Coordinate)

	javadoc, ok := core.Task("javadoc")
	require.True(t, ok)
	assert.Equal(t, "Clusterless Commons 0.11 API", javadoc.Config["title"])

	assert.Equal(t, "abc123", result.Store.Get(property.KeyCurrentCommit).String())
	assert.True(t, result.Store.Get(property.KeyCurrentBranch).IsAbsent())

	require.Len(t, result.Descriptors, 2)
	d := result.Descriptors[0]
	assert.Equal(t, "io.clusterless:clusterless-commons-core:0.11", d.Coordinates().String())
	assert.Equal(t, "octocat", d.Repository().Username.Secret())
	assert.True(t, d.Repository().Password.IsUnresolved())
}

func TestRun_SystemPropertiesOverrideWorkspaceDefaults(t *testing.T) {
	root := testutil.WriteWorkspace(t, map[string]string{
		"workspace.cue": `
systemProperties: "build.vcs.branch": "main"
seed: ["props"]
fragments: props: properties: [{key: "currentBranch", systemProperty: "build.vcs.branch"}]
`,
	})

	result, err := NewPipeline(nil).Run(context.Background(), Options{Root: root, LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, "main", result.Store.Get(property.KeyCurrentBranch).String())

	result, err = NewPipeline(nil).Run(context.Background(), Options{
		Root:             root,
		SystemProperties: map[string]string{"build.vcs.branch": "release"},
		LookupEnv:        noEnv,
	})
	require.NoError(t, err)
	assert.Equal(t, "release", result.Store.Get(property.KeyCurrentBranch).String())
	assert.Empty(t, result.Modules)
}

func TestRun_ModulesKeepTheirOwnProperties(t *testing.T) {
	root := testutil.WriteWorkspace(t, map[string]string{
		"workspace.cue": `
fragments: {
	"a-props": properties: [{key: "group", value: "io.a"}, {key: "version", value: "1.0"}, {key: "repoUserName", value: "alice"}]
	"b-props": properties: [{key: "group", value: "io.b"}, {key: "version", value: "2.0"}, {key: "repoUserName", value: "bob"}]
	pub: publishing: repository: {
		name: "internal"
		url:  "https://repo.example.com/releases"
		credentials: username: [{kind: "property", name: "repoUserName"}]
	}
}
modules: {
	a: fragments: ["a-props", "pub"]
	b: fragments: ["b-props", "pub"]
	c: dependencies: [{configuration: "api", project: "b"}]
}
`,
	})

	for i := 0; i < 20; i++ {
		result, err := NewPipeline(nil).Run(context.Background(), Options{Root: root, LookupEnv: noEnv})
		require.NoError(t, err)

		assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, result.Levels)
		require.Len(t, result.Descriptors, 2)
		assert.Equal(t, "io.a:a:1.0", result.Descriptors[0].Coordinates().String())
		assert.Equal(t, "alice", result.Descriptors[0].Repository().Username.Secret())
		assert.Equal(t, "io.b:b:2.0", result.Descriptors[1].Coordinates().String())
		assert.Equal(t, "bob", result.Descriptors[1].Repository().Username.Secret())

		c, ok := result.Module("c")
		require.True(t, ok)
		require.Len(t, c.Dependencies, 1)
		assert.Equal(t, "io.b:b", c.Dependencies[0].Coordinate)
		assert.Equal(t, "2.0", c.Dependencies[0].Version)

		// Level writes are committed in name order.
		assert.Equal(t, "2.0", result.Store.Get(property.KeyVersion).String())
		assert.Equal(t, "2.0", c.Properties[property.KeyVersion])
	}
}

func TestRun_ModuleFailureAborts(t *testing.T) {
	root := testutil.WriteWorkspace(t, map[string]string{
		"workspace.cue": `
fragments: broken: plugins: ["org.example.missing"]
modules: {
	a: fragments: ["broken"]
	b: {}
}
`,
	})

	_, err := NewPipeline(nil).Run(context.Background(), Options{Root: root, LookupEnv: noEnv, Concurrency: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrUnknownPlugin))

	var pluginErr *compose.UnknownPluginError
	require.True(t, errors.As(err, &pluginErr))
	assert.Equal(t, "a", pluginErr.Module())
}

func TestRun_ModuleCycle(t *testing.T) {
	root := testutil.WriteWorkspace(t, map[string]string{
		"workspace.cue": `
modules: {
	a: after: ["b"]
	b: after: ["a"]
}
`,
	})

	_, err := NewPipeline(nil).Run(context.Background(), Options{Root: root, LookupEnv: noEnv})
	var cycleErr *dag.CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestRun_Cancelled(t *testing.T) {
	root := testutil.WriteWorkspace(t, testutil.CommonsWorkspace())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(nil).Run(ctx, Options{Root: root, LookupEnv: noEnv})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptions_Validate(t *testing.T) {
	assert.Error(t, Options{}.Validate())
	assert.NoError(t, Options{Root: "."}.Validate())
}
