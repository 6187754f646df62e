package publish

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/clusterlesshq/conventions/internal/output"
)

// LocalUploader writes files into a Maven-style directory layout:
// <Dir>/<group path>/<artifactId>/<version>/<file>.
type LocalUploader struct {
	Dir string
}

// Upload implements Uploader.
func (u *LocalUploader) Upload(ctx context.Context, d *Descriptor, files []Artifact) error {
	dir := u.Path(d)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		output.Debug("wrote file", "path", path)
	}
	return nil
}

// Path returns the directory files for d are written to.
func (u *LocalUploader) Path(d *Descriptor) string {
	c := d.Coordinates()
	parts := append([]string{u.Dir}, strings.Split(c.Group, ".")...)
	parts = append(parts, c.ArtifactID, c.Version)
	return filepath.Join(parts...)
}

// CommandSigner signs data by piping it to an external command and reading
// the armored signature from stdout.
type CommandSigner struct {
	Path string
	Args []string
}

// NewGPGSigner returns a signer running gpg. keyID selects the signing key
// and may be empty to use the default key.
func NewGPGSigner(keyID string) *CommandSigner {
	args := []string{"--batch", "--detach-sign", "--armor"}
	if keyID != "" {
		args = append(args, "--local-user", keyID)
	}
	return &CommandSigner{Path: "gpg", Args: args}
}

// Sign implements Signer.
func (s *CommandSigner) Sign(ctx context.Context, data []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.Path, s.Args...)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", s.Path, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
