package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterlesshq/conventions/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg.Log.Timestamps)
	assert.True(t, *cfg.Log.Timestamps)
	assert.Equal(t, DefaultRepoDir, cfg.Publish.RepoDir)
	assert.NoError(t, Validate(cfg))
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "config.yaml", `
workspace: /src/clusterless-commons
systemProperties:
  - publish.repo.userName=octocat
  - build.vcs.branch=main
log:
  timestamps: false
publish:
  repoDir: /tmp/repo
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/src/clusterless-commons", cfg.Workspace)
	assert.Equal(t, []string{"publish.repo.userName=octocat", "build.vcs.branch=main"}, cfg.SystemProperties)
	require.NotNil(t, cfg.Log.Timestamps)
	assert.False(t, *cfg.Log.Timestamps)
	assert.Equal(t, "/tmp/repo", cfg.Publish.RepoDir)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "config.yaml", "publish:\n  repoDir: /tmp/repo\n")
	t.Setenv("CONV_REPO_DIR", "/env/repo")

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/env/repo", cfg.Publish.RepoDir)
}

func TestLoader_MissingFile(t *testing.T) {
	cfg, err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Workspace)
}

func TestLoader_InvalidFile(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "config.yaml", "log: [\n")
	_, err := NewLoader().Load(path)
	assert.Error(t, err)
}

func TestConfigFileExists(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "config.yaml", "")

	exists, err := ConfigFileExists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = ConfigFileExists(filepath.Join(dir, "other.yaml"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		fields []string
	}{
		{name: "empty", cfg: Config{}},
		{
			name:   "bad system property",
			cfg:    Config{SystemProperties: []string{"ok=1", "=missing-key"}},
			fields: []string{"systemProperties[1]"},
		},
		{
			name:   "whitespace paths",
			cfg:    Config{Workspace: "  ", Publish: PublishConfig{RepoDir: " "}},
			fields: []string{"workspace", "publish.repoDir"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var errs ValidationErrors
			require.True(t, errors.As(err, &errs))
			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.fields, fields)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestValidateFile(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "config.yaml", "systemProperties: [\"=x\"]\n")
	assert.Error(t, ValidateFile(path))
}

func TestParseSystemProperties(t *testing.T) {
	got, err := ParseSystemProperties(
		[]string{"build.vcs.branch=main", "flag"},
		[]string{"build.vcs.branch=release", "url=https://x.test/?a=b"},
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"build.vcs.branch": "release",
		"flag":             "",
		"url":              "https://x.test/?a=b",
	}, got)

	_, err = ParseSystemProperties([]string{"=value"})
	assert.Error(t, err)
}
