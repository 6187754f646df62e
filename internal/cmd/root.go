// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusterlesshq/conventions/internal/config"
	oerrors "github.com/clusterlesshq/conventions/internal/errors"
	"github.com/clusterlesshq/conventions/internal/output"
	"github.com/clusterlesshq/conventions/internal/version"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed into every sub-command
// constructor.
type GlobalConfig struct {
	// Config is the loaded tool configuration. Never nil after startup.
	Config *config.Config

	// ConfigPath is the resolved --config path.
	ConfigPath config.ResolvedValue

	// Workspace is the resolved workspace directory.
	Workspace config.ResolvedValue

	// SystemProperties merges config systemProperties with -D flags.
	SystemProperties map[string]string

	// Format is the resolved --output format.
	Format output.Format

	Verbose bool
}

// globalFlags holds the raw persistent flag values.
type globalFlags struct {
	workspace  string
	config     string
	define     []string
	output     string
	verbose    bool
	timestamps bool
}

// NewRootCmd creates the root command for conv.
func NewRootCmd() *cobra.Command {
	var flags globalFlags
	cfg := &GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "conv",
		Short: "Build-convention composition engine",
		Long: `conv composes reusable build-convention fragments onto the modules of a
multi-module workspace.

It resolves shared properties, dependency constraints, task configuration and
publication metadata, then emits the effective configuration of every module
and the descriptors needed to publish them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return initializeGlobals(c, &flags, cfg)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.workspace, "workspace", "w", "", "Workspace directory (env: CONV_WORKSPACE)")
	rootCmd.PersistentFlags().StringVar(&flags.config, "config", "", "Path to config file (env: CONV_CONFIG)")
	rootCmd.PersistentFlags().StringArrayVarP(&flags.define, "define", "D", nil, "System property key=value (can be repeated)")
	rootCmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "yaml", "Output format: yaml, json, table")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&flags.timestamps, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(
		NewResolveCmd(cfg),
		NewDescribeCmd(cfg),
		NewPublishCmd(cfg),
		NewDiffCmd(cfg),
		NewVetCmd(cfg),
		NewConfigCmd(cfg),
		NewVersionCmd(),
	)

	return rootCmd
}

// initializeGlobals sets up logging and resolves configuration.
func initializeGlobals(cmd *cobra.Command, flags *globalFlags, cfg *GlobalConfig) error {
	configPath, err := config.ResolveConfigPath(flags.config)
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitNotFound, Err: oerrors.Wrap(oerrors.ErrNotFound, "could not resolve config path")}
	}

	// A broken config file must not block commands such as version or
	// config init; config vet reports it.
	loaded, err := config.NewLoader().Load(configPath.Value)
	if err != nil {
		output.Debug("config load error", "error", err)
		loaded = config.DefaultConfig()
	}

	logCfg := output.LogConfig{Verbose: flags.verbose}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(flags.timestamps)
	} else if loaded.Log.Timestamps != nil {
		logCfg.Timestamps = loaded.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	format, ok := output.ParseFormat(flags.output)
	if !ok {
		return &oerrors.ExitError{
			Code: oerrors.ExitGeneralError,
			Err:  fmt.Errorf("invalid output format %q (valid: %v)", flags.output, output.ValidFormats()),
		}
	}

	props, err := config.ParseSystemProperties(loaded.SystemProperties, flags.define)
	if err != nil {
		return &oerrors.ExitError{Code: oerrors.ExitValidationError, Err: oerrors.Wrap(oerrors.ErrValidation, err.Error())}
	}

	cfg.Config = loaded
	cfg.ConfigPath = configPath
	cfg.Workspace = config.ResolveWorkspace(config.ResolveOptions{
		FlagValue:   flags.workspace,
		ConfigValue: loaded.Workspace,
	})
	cfg.SystemProperties = props
	cfg.Format = format
	cfg.Verbose = flags.verbose

	info := version.Get()
	output.Debug("conv started", "version", info.Version, "cue_sdk", info.CUESDKVersion)
	config.LogResolvedValues(cfg.ConfigPath, cfg.Workspace)

	return nil
}
