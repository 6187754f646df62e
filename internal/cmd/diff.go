package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusterlesshq/conventions/internal/output"
	"github.com/clusterlesshq/conventions/internal/snapshot"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd(cfg *GlobalConfig) *cobra.Command {
	var pf PipelineFlags

	c := &cobra.Command{
		Use:   "diff <snapshot>",
		Short: "Compare the current configuration with a saved snapshot",
		Long: `Resolve the workspace and report, module by module, what changed since the
snapshot was written with 'conv resolve --snapshot'. Build properties are
compared too; credential properties are never part of a snapshot.

Exits 0 whether or not differences were found.

Examples:
  conv resolve --snapshot build/before.yaml
  conv diff build/before.yaml -D build.vcs.branch=release`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runDiff(c, args[0], cfg, &pf)
		},
	}

	pf.AddTo(c)
	return c
}

func runDiff(cmd *cobra.Command, path string, cfg *GlobalConfig, pf *PipelineFlags) error {
	ctx := context.Background()

	previous, err := snapshot.Read(path)
	if err != nil {
		return reportError(cmd, "reading snapshot failed", err)
	}

	result, err := runPipeline(ctx, cmd, cfg, pf)
	if err != nil {
		return err
	}

	current := snapshot.New(result.Store.BuildID(), result.Store.Snapshot(), result.Modules)
	comparison, err := snapshot.Compare(previous, current, output.IsTTY())
	if err != nil {
		return reportError(cmd, "comparing snapshot failed", err)
	}

	output.Debug("compared snapshot",
		"previous-build", previous.BuildID,
		"current-build", current.BuildID,
		"added", len(comparison.Added),
		"removed", len(comparison.Removed),
		"modified", len(comparison.Modified),
	)

	fmt.Fprintln(cmd.OutOrStdout(), comparison.Render())
	return nil
}
