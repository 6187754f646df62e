package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusterlesshq/conventions/internal/output"
)

// NewVetCmd creates the vet command.
func NewVetCmd(cfg *GlobalConfig) *cobra.Command {
	var pf PipelineFlags

	c := &cobra.Command{
		Use:   "vet",
		Short: "Validate the workspace",
		Long: `Validate the workspace declaration and configure every module without
writing anything.

Checks performed:
  1. workspace.cue and included module files satisfy the schema
  2. Version catalogs parse and fragment references resolve
  3. Every fragment and plugin applies cleanly to every module
  4. Publishing metadata assembles into a descriptor

Examples:
  conv vet
  conv vet -w ../clusterless-commons`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runVet(c, cfg, &pf)
		},
	}

	pf.AddTo(c)
	return c
}

func runVet(cmd *cobra.Command, cfg *GlobalConfig, pf *PipelineFlags) error {
	result, err := runPipeline(context.Background(), cmd, cfg, pf)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, s := range result.Modules {
		fmt.Fprintln(out, output.FormatModuleLine(s.Name, output.StatusConfigured))
		for _, t := range s.Tasks {
			if t.Pending {
				output.ModuleLogger(s.Name).Warn("task configured but never registered", "task", t.Name)
			}
		}
	}

	summary := fmt.Sprintf("Workspace valid (%d modules, %d publishable)", len(result.Modules), len(result.Descriptors))
	fmt.Fprintln(out, output.FormatCheckmark(summary))
	return nil
}
