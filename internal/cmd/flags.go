package cmd

import (
	"github.com/spf13/cobra"
)

// PipelineFlags holds flags common to commands that configure the workspace
// (resolve, describe, publish, diff, vet).
type PipelineFlags struct {
	Jobs int
}

// AddTo registers the pipeline flags on the given cobra command.
func (f *PipelineFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.Jobs, "jobs", "j", 0,
		"Modules configured concurrently per level (0: unlimited)")
}

// PublishFlags holds flags for conv publish.
type PublishFlags struct {
	RepoDir    string
	SigningKey string
	DryRun     bool
}

// AddTo registers the publish flags on the given cobra command.
func (f *PublishFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.RepoDir, "repo-dir", "",
		"Local repository directory (env: CONV_REPO_DIR, default: build/repo)")
	cmd.Flags().StringVar(&f.SigningKey, "signing-key", "",
		"gpg key used for signing (env: CONV_SIGNING_KEY)")
	cmd.Flags().BoolVar(&f.DryRun, "dry-run", false,
		"Log what would be published without writing files")
}
