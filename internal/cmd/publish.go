package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusterlesshq/conventions/internal/config"
	oerrors "github.com/clusterlesshq/conventions/internal/errors"
	"github.com/clusterlesshq/conventions/internal/output"
	"github.com/clusterlesshq/conventions/internal/publish"
)

// NewPublishCmd creates the publish command.
func NewPublishCmd(cfg *GlobalConfig) *cobra.Command {
	var (
		pf  PipelineFlags
		pub PublishFlags
	)

	c := &cobra.Command{
		Use:   "publish [module...]",
		Short: "Publish module descriptors to the local repository",
		Long: `Write the publication descriptor of every publishable module, with SHA-256
and SHA-512 checksums, into a Maven-style local repository:

  <repo-dir>/<group path>/<artifactId>/<version>/<artifactId>-<version>.pom.yaml

Modules that require signing also get a detached .asc signature for each file,
produced by gpg. A module whose repository requires authentication fails when
neither credential resolves; the remaining modules are still published.

Examples:
  # Publish every module
  conv publish

  # Show what would be written
  conv publish --dry-run

  # Publish into a custom directory with a specific key
  conv publish --repo-dir /tmp/repo --signing-key 0xDEADBEEF`,
		RunE: func(c *cobra.Command, args []string) error {
			return runPublish(c, args, cfg, &pf, &pub)
		},
	}

	pf.AddTo(c)
	pub.AddTo(c)
	return c
}

func runPublish(cmd *cobra.Command, args []string, cfg *GlobalConfig, pf *PipelineFlags, pub *PublishFlags) error {
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
		return nil
	}

	repoDir := config.ResolveRepoDir(config.ResolveOptions{
		FlagValue:   pub.RepoDir,
		ConfigValue: cfg.Config.Publish.RepoDir,
	})
	signingKey := config.ResolveSigningKey(config.ResolveOptions{
		FlagValue:   pub.SigningKey,
		ConfigValue: cfg.Config.Publish.SigningKey,
	})
	config.LogResolvedValues(repoDir, signingKey)

	uploader := &publish.LocalUploader{Dir: repoDir.Value}
	out := cmd.OutOrStdout()

	if pub.DryRun {
		for _, d := range descriptors {
			output.ModuleLogger(d.Module()).Info("would publish",
				"coordinates", d.Coordinates().String(),
				"path", uploader.Path(d),
				"sign", d.SigningRequired(),
			)
			fmt.Fprintln(out, output.FormatModuleLine(d.Module(), output.StatusDryRun))
		}
		return nil
	}

	var signer publish.Signer
	for _, d := range descriptors {
		if d.SigningRequired() {
			signer = publish.NewGPGSigner(signingKey.Value)
			break
		}
	}

	publisher := publish.NewPublisher(uploader, signer)

	var results []publish.Result
	publishErr := output.RunWithSpinner(ctx, func() error {
		var err error
		results, err = publisher.PublishAll(ctx, descriptors)
		return err
	}, output.WithTitle(fmt.Sprintf("Publishing %d modules...", len(descriptors))))

	published := 0
	for _, r := range results {
		if r.Err != nil {
			output.ModuleLogger(r.Module).Error("publish failed", "error", r.Err)
			fmt.Fprintln(out, output.FormatModuleLine(r.Module, output.StatusFailed))
			continue
		}
		published++
		fmt.Fprintln(out, output.FormatModuleLine(r.Module, output.StatusPublished))
	}

	if publishErr != nil {
		if len(results) == 0 {
			output.Error("publish failed", "error", publishErr)
		}
		return &oerrors.ExitError{
			Code:    oerrors.ExitCodeFromError(publishErr),
			Err:     publishErr,
			Printed: true,
		}
	}

	fmt.Fprintln(out, output.FormatCheckmark(fmt.Sprintf("Published %d modules to %s", published, repoDir.Value)))
	return nil
}
