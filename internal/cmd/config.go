package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/clusterlesshq/conventions/internal/config"
	oerrors "github.com/clusterlesshq/conventions/internal/errors"
)

// configHeader is written above the generated config file.
const configHeader = `# conv configuration.
#
# systemProperties are applied before -D flags, one key=value per entry.
# Environment overrides: CONV_WORKSPACE, CONV_REPO_DIR, CONV_SIGNING_KEY.
`

// NewConfigCmd creates the config command group.
func NewConfigCmd(cfg *GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Configuration management for conv.`,
	}

	c.AddCommand(NewConfigInitCmd(cfg))
	c.AddCommand(NewConfigVetCmd(cfg))

	return c
}

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(cfg *GlobalConfig) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Write a default configuration file to the resolved config path
(--config > CONV_CONFIG > ~/.conv/config.yaml).

Examples:
  # Initialize configuration
  conv config init

  # Overwrite existing configuration
  conv config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigInit(c, cfg, force)
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")
	return c
}

func runConfigInit(cmd *cobra.Command, cfg *GlobalConfig, force bool) error {
	path, err := config.ExpandPath(cfg.ConfigPath.Value)
	if err != nil {
		return reportError(cmd, "could not resolve config path", err)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return reportError(cmd, "config init failed", &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: path,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		})
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return reportError(cmd, "config init failed", fmt.Errorf("encoding default config: %w", err))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return reportError(cmd, "config init failed", fmt.Errorf("creating config directory: %w", err))
	}
	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o600); err != nil {
		return reportError(cmd, "config init failed", fmt.Errorf("writing config file: %w", err))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration initialized at "+path)
	fmt.Fprintln(out, "Validate with: conv config vet")
	return nil
}

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(cfg *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the conv configuration file.

Checks performed:
  1. Config file exists at resolved path
  2. Config file is valid YAML
  3. systemProperties entries are key=value pairs

The config path is resolved using precedence:
  --config flag > CONV_CONFIG env > ~/.conv/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigVet(c, cfg)
		},
	}
}

func runConfigVet(cmd *cobra.Command, cfg *GlobalConfig) error {
	path, err := config.ExpandPath(cfg.ConfigPath.Value)
	if err != nil {
		return reportError(cmd, "could not resolve config path", err)
	}

	exists, err := config.ConfigFileExists(path)
	if err != nil {
		return reportError(cmd, "checking config file failed", err)
	}
	if !exists {
		return reportError(cmd, "config vet failed", oerrors.NewNotFoundError(
			"configuration file not found",
			path,
			"Run 'conv config init' to create default configuration.",
		))
	}

	if err := config.ValidateFile(path); err != nil {
		var validationErrs config.ValidationErrors
		if errors.As(err, &validationErrs) {
			errOut := cmd.ErrOrStderr()
			fmt.Fprintln(errOut, "Error: config validation failed")
			fmt.Fprintf(errOut, "  File: %s\n\n", path)
			for _, e := range validationErrs {
				fmt.Fprintf(errOut, "  %s: %s\n", e.Field, e.Message)
			}
			return &oerrors.ExitError{Code: oerrors.ExitValidationError, Err: err, Printed: true}
		}
		return reportError(cmd, "config vet failed", oerrors.NewValidationError(err.Error(), path, "", ""))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid: %s\n", path)
	return nil
}
