package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusterlesshq/conventions/internal/output"
	"github.com/clusterlesshq/conventions/internal/publish"
)

// NewDescribeCmd creates the describe command.
func NewDescribeCmd(cfg *GlobalConfig) *cobra.Command {
	var pf PipelineFlags

	c := &cobra.Command{
		Use:   "describe [module...]",
		Short: "Show publication descriptors",
		Long: `Assemble the publication descriptor of every module that declares publishing
metadata: coordinates, licences, developers, SCM, target repository and the
signing flag.

Credential values are never printed. The username and password columns show
the source that provided each value, or <unresolved>.

Examples:
  # Describe every publishable module
  conv describe

  # Check which credential sources are in effect
  conv describe -o table -D publish.repo.userName=octocat`,
		RunE: func(c *cobra.Command, args []string) error {
			return runDescribe(c, args, cfg, &pf)
		},
	}

	pf.AddTo(c)
	return c
}

func runDescribe(cmd *cobra.Command, args []string, cfg *GlobalConfig, pf *PipelineFlags) error {
	ctx := context.Background()

	result, err := runPipeline(ctx, cmd, cfg, pf)
	if err != nil {
		return err
	}

	descriptors, err := selectDescriptors(cmd, result.Descriptors, args)
	if err != nil {
		return err
	}

	if len(descriptors) == 0 {
		output.Warn("no module declares publishing metadata")
	}

	if cfg.Format == output.FormatTable {
		fmt.Fprintln(cmd.OutOrStdout(), descriptorTable(descriptors).String())
		return nil
	}

	docs := make([]any, len(descriptors))
	for i, d := range descriptors {
		docs[i] = d.View()
	}
	if err := output.WriteDocuments(cmd.OutOrStdout(), cfg.Format, docs); err != nil {
		return reportError(cmd, "writing output failed", err)
	}
	return nil
}

func selectDescriptors(cmd *cobra.Command, descriptors []*publish.Descriptor, names []string) ([]*publish.Descriptor, error) {
	if len(names) == 0 {
		return descriptors, nil
	}

	byName := make(map[string]*publish.Descriptor, len(descriptors))
	for _, d := range descriptors {
		byName[d.Module()] = d
	}

	out := make([]*publish.Descriptor, 0, len(names))
	for _, n := range names {
		d, ok := byName[n]
		if !ok {
			return nil, reportError(cmd, "unknown module", unknownModuleError(n, "has no publishing metadata"))
		}
		out = append(out, d)
	}
	return out, nil
}

func descriptorTable(descriptors []*publish.Descriptor) *output.Table {
	tbl := output.NewTable("MODULE", "COORDINATES", "REPOSITORY", "USERNAME", "PASSWORD", "SIGN")
	for _, d := range descriptors {
		v := d.View()
		repo, user, pass := "-", "-", "-"
		if v.Repository != nil {
			repo = v.Repository.URL
			user = v.Repository.Username
			pass = v.Repository.Password
		}
		tbl.Row(v.Module, v.Coordinates.String(), repo, user, pass, fmt.Sprintf("%t", v.Sign))
	}
	return tbl
}
