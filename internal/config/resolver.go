package config

import (
	"os"

	"github.com/clusterlesshq/conventions/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is a configuration value with its source.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveOptions are the candidate values for one setting.
type ResolveOptions struct {
	// FlagValue is the flag value (empty if not set).
	FlagValue string
	// ConfigValue is the config file value (empty if not set).
	ConfigValue string
}

// resolve applies precedence flag > env > config > default. Empty values are
// treated as unset.
func resolve(key, envVar, defaultValue string, opts ResolveOptions) ResolvedValue {
	result := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]string)}

	candidates := []struct {
		source ConfigSource
		value  string
	}{
		{SourceFlag, opts.FlagValue},
		{SourceEnv, os.Getenv(envVar)},
		{SourceConfig, opts.ConfigValue},
		{SourceDefault, defaultValue},
	}

	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if result.Source == "" {
			result.Value = c.value
			result.Source = c.source
			continue
		}
		result.Shadowed[c.source] = c.value
	}
	return result
}

// ResolveWorkspace resolves the workspace directory using precedence:
// (1) --workspace flag, (2) CONV_WORKSPACE env, (3) config.workspace, (4) "."
func ResolveWorkspace(opts ResolveOptions) ResolvedValue {
	return resolve("workspace", "CONV_WORKSPACE", ".", opts)
}

// ResolveRepoDir resolves the local repository directory using precedence:
// (1) --repo-dir flag, (2) CONV_REPO_DIR env, (3) config.publish.repoDir, (4) build/repo
func ResolveRepoDir(opts ResolveOptions) ResolvedValue {
	return resolve("publish.repoDir", "CONV_REPO_DIR", DefaultRepoDir, opts)
}

// ResolveSigningKey resolves the signing key using precedence:
// (1) --signing-key flag, (2) CONV_SIGNING_KEY env, (3) config.publish.signingKey
func ResolveSigningKey(opts ResolveOptions) ResolvedValue {
	return resolve("publish.signingKey", "CONV_SIGNING_KEY", "", opts)
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) CONV_CONFIG env, (3) ~/.conv/config.yaml
func ResolveConfigPath(flagValue string) (ResolvedValue, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return ResolvedValue{}, err
	}
	return resolve("config", "CONV_CONFIG", paths.ConfigFile, ResolveOptions{FlagValue: flagValue}), nil
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values ...ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
