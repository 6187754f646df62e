package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWorkspace(t *testing.T) {
	tests := []struct {
		name       string
		env        string
		opts       ResolveOptions
		wantValue  string
		wantSource ConfigSource
		shadowed   map[ConfigSource]string
	}{
		{
			name:       "flag wins",
			env:        "/env/ws",
			opts:       ResolveOptions{FlagValue: "/flag/ws", ConfigValue: "/config/ws"},
			wantValue:  "/flag/ws",
			wantSource: SourceFlag,
			shadowed:   map[ConfigSource]string{SourceEnv: "/env/ws", SourceConfig: "/config/ws", SourceDefault: "."},
		},
		{
			name:       "env over config",
			env:        "/env/ws",
			opts:       ResolveOptions{ConfigValue: "/config/ws"},
			wantValue:  "/env/ws",
			wantSource: SourceEnv,
			shadowed:   map[ConfigSource]string{SourceConfig: "/config/ws", SourceDefault: "."},
		},
		{
			name:       "config over default",
			opts:       ResolveOptions{ConfigValue: "/config/ws"},
			wantValue:  "/config/ws",
			wantSource: SourceConfig,
			shadowed:   map[ConfigSource]string{SourceDefault: "."},
		},
		{
			name:       "default",
			wantValue:  ".",
			wantSource: SourceDefault,
			shadowed:   map[ConfigSource]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONV_WORKSPACE", tt.env)

			result := ResolveWorkspace(tt.opts)
			assert.Equal(t, "workspace", result.Key)
			assert.Equal(t, tt.wantValue, result.Value)
			assert.Equal(t, tt.wantSource, result.Source)
			assert.Equal(t, tt.shadowed, result.Shadowed)
		})
	}
}

func TestResolveRepoDir_Default(t *testing.T) {
	t.Setenv("CONV_REPO_DIR", "")
	result := ResolveRepoDir(ResolveOptions{})
	assert.Equal(t, DefaultRepoDir, result.Value)
	assert.Equal(t, SourceDefault, result.Source)
}

func TestResolveSigningKey_Unset(t *testing.T) {
	t.Setenv("CONV_SIGNING_KEY", "")
	result := ResolveSigningKey(ResolveOptions{})
	assert.Empty(t, result.Value)
	assert.Empty(t, result.Source)
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("CONV_CONFIG", "/env/config.yaml")

	result, err := ResolveConfigPath("/flag/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/flag/config.yaml", result.Value)
	assert.Equal(t, SourceFlag, result.Source)
	assert.Equal(t, "/env/config.yaml", result.Shadowed[SourceEnv])

	t.Setenv("CONV_CONFIG", "")
	result, err = ResolveConfigPath("")
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, result.Source)
	assert.Equal(t, filepath.Join(".conv", "config.yaml"), filepath.Join(filepath.Base(filepath.Dir(result.Value)), filepath.Base(result.Value)))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/abs/path", "/abs/path"},
		{"~", home},
		{"~/x/y", filepath.Join(home, "x", "y")},
		{"~other/x", "~other/x"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetConfigFile_Env(t *testing.T) {
	t.Setenv("CONV_CONFIG", "/custom/config.yaml")
	path, err := GetConfigFile()
	require.NoError(t, err)
	assert.Equal(t, "/custom/config.yaml", path)
}
