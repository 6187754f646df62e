package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusterlesshq/conventions/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show conv version information.

Displays:
  - conv version, commit, and build date
  - Go version and the CUE SDK used to evaluate workspace declarations`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			fmt.Fprintln(c.OutOrStdout(), version.Get().String())
			return nil
		},
	}
}
