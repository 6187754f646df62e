// Package config provides configuration loading and management.
package config

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// PublishConfig contains settings for conv publish.
type PublishConfig struct {
	// RepoDir is the local repository directory descriptors are written to.
	// Env: CONV_REPO_DIR, Default: build/repo
	RepoDir string `mapstructure:"repoDir" yaml:"repoDir,omitempty"`

	// SigningKey selects the gpg key used when a publication requires signing.
	// Env: CONV_SIGNING_KEY, Default: gpg's default key
	SigningKey string `mapstructure:"signingKey" yaml:"signingKey,omitempty"`
}

// Config represents the conv tool configuration, loaded from ~/.conv/config.yaml.
type Config struct {
	// Workspace is the default workspace directory.
	// Env: CONV_WORKSPACE
	Workspace string `mapstructure:"workspace" yaml:"workspace,omitempty"`

	// SystemProperties are key=value pairs applied before -D flags.
	SystemProperties []string `mapstructure:"systemProperties" yaml:"systemProperties,omitempty"`

	Log     LogConfig     `mapstructure:"log" yaml:"log,omitempty"`
	Publish PublishConfig `mapstructure:"publish" yaml:"publish,omitempty"`
}

// DefaultRepoDir is the local repository used when none is configured.
const DefaultRepoDir = "build/repo"

// DefaultConfig returns a Config with all default values populated.
// Used by `conv config init` to generate the initial config file.
func DefaultConfig() *Config {
	timestamps := true
	return &Config{
		Log:     LogConfig{Timestamps: &timestamps},
		Publish: PublishConfig{RepoDir: DefaultRepoDir},
	}
}
