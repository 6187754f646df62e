package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clusterlesshq/conventions/internal/core"
	"github.com/clusterlesshq/conventions/internal/output"
	"github.com/clusterlesshq/conventions/internal/snapshot"
)

// NewResolveCmd creates the resolve command.
func NewResolveCmd(cfg *GlobalConfig) *cobra.Command {
	var (
		pf           PipelineFlags
		snapshotFlag string
	)

	c := &cobra.Command{
		Use:   "resolve [module...]",
		Short: "Show the effective configuration of each module",
		Long: `Compose every convention fragment onto the workspace modules and print the
result: applied fragments and plugins, dependency constraints with their
override history, resolved dependencies, toolchain, repositories, artifacts
and task configuration.

Arguments:
  module    Restrict output to the named modules (default: all)

Examples:
  # Resolve every module as YAML
  conv resolve

  # Show a summary table
  conv resolve -o table

  # Override a system property
  conv resolve -D build.vcs.branch=main

  # Save a snapshot for later comparison with conv diff
  conv resolve --snapshot build/conv-snapshot.yaml`,
		RunE: func(c *cobra.Command, args []string) error {
			return runResolve(c, args, cfg, &pf, snapshotFlag)
		},
	}

	pf.AddTo(c)
	c.Flags().StringVar(&snapshotFlag, "snapshot", "",
		"Also write the resolved state to this snapshot file")

	return c
}

func runResolve(cmd *cobra.Command, args []string, cfg *GlobalConfig, pf *PipelineFlags, snapshotPath string) error {
	ctx := context.Background()

	result, err := runPipeline(ctx, cmd, cfg, pf)
	if err != nil {
		return err
	}

	states, err := selectModules(cmd, result.Modules, args)
	if err != nil {
		return err
	}

	if snapshotPath != "" {
		snap := snapshot.New(result.Store.BuildID(), result.Store.Snapshot(), result.Modules)
		if err := snapshot.Write(snapshotPath, snap); err != nil {
			return reportError(cmd, "writing snapshot failed", err)
		}
		output.Info(fmt.Sprintf("wrote snapshot of %d modules to %s", len(snap.Modules), snapshotPath))
	}

	for _, s := range states {
		output.ModuleLogger(s.Name).Debug("resolved",
			"fragments", len(s.Fragments),
			"plugins", len(s.Plugins),
			"constraints", len(s.Constraints),
		)
	}

	if cfg.Format == output.FormatTable {
		fmt.Fprintln(cmd.OutOrStdout(), moduleTable(states).String())
		return nil
	}

	docs := make([]any, len(states))
	for i, s := range states {
		docs[i] = s
	}
	if err := output.WriteDocuments(cmd.OutOrStdout(), cfg.Format, docs); err != nil {
		return reportError(cmd, "writing output failed", err)
	}
	return nil
}

// selectModules filters states to names, keeping configuration order.
func selectModules(cmd *cobra.Command, states []*core.ModuleState, names []string) ([]*core.ModuleState, error) {
	if len(names) == 0 {
		return states, nil
	}

	byName := make(map[string]*core.ModuleState, len(states))
	for _, s := range states {
		byName[s.Name] = s
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := byName[n]; !ok {
			return nil, reportError(cmd, "unknown module", unknownModuleError(n, "is not part of the workspace"))
		}
		wanted[n] = true
	}

	var out []*core.ModuleState
	for _, s := range states {
		if wanted[s.Name] {
			out = append(out, s)
		}
	}
	return out, nil
}

func moduleTable(states []*core.ModuleState) *output.Table {
	tbl := output.NewTable("MODULE", "FRAGMENTS", "PLUGINS", "TOOLCHAIN", "DEPENDENCIES", "TASKS")
	for _, s := range states {
		toolchain := "-"
		if s.Toolchain != nil {
			toolchain = strconv.Itoa(s.Toolchain.LanguageVersion)
		}
		tbl.Row(
			s.Name,
			strings.Join(s.Fragments, ", "),
			strings.Join(s.Plugins, ", "),
			toolchain,
			strconv.Itoa(len(s.Dependencies)),
			taskSummary(s.Tasks),
		)
	}
	return tbl
}

// taskSummary counts tasks, noting pending ones.
func taskSummary(tasks []core.TaskState) string {
	pending := 0
	for _, t := range tasks {
		if t.Pending {
			pending++
		}
	}
	if pending == 0 {
		return strconv.Itoa(len(tasks))
	}
	return fmt.Sprintf("%d (%d pending)", len(tasks), pending)
}
