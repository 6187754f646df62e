package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/clusterlesshq/conventions/internal/loader"
	"github.com/clusterlesshq/conventions/internal/output"
	"github.com/clusterlesshq/conventions/internal/pipeline"
)

// runPipeline locates the workspace and configures every module in it.
// On failure it returns a printed *ExitError.
func runPipeline(ctx context.Context, cmd *cobra.Command, cfg *GlobalConfig, pf *PipelineFlags) (*pipeline.Result, error) {
	root, err := loader.FindRoot(cfg.Workspace.Value)
	if err != nil {
		return nil, reportError(cmd, "workspace not found", err)
	}

	opts := pipeline.Options{
		Root:             root,
		SystemProperties: cfg.SystemProperties,
		Concurrency:      pf.Jobs,
	}

	output.Debug("configuring workspace",
		"root", root,
		"system-properties", len(cfg.SystemProperties),
		"jobs", pf.Jobs,
	)

	result, err := pipeline.NewPipeline(nil).Run(ctx, opts)
	if err != nil {
		return nil, reportError(cmd, "configuration failed", err)
	}
	return result, nil
}
