package publish

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"sigs.k8s.io/yaml"

	"github.com/clusterlesshq/conventions/internal/output"
)

// Artifact is a named file handed to an Uploader.
type Artifact struct {
	Name string
	Data []byte
}

// Uploader delivers a module's files to its repository.
type Uploader interface {
	Upload(ctx context.Context, d *Descriptor, files []Artifact) error
}

// Signer produces a detached signature for data.
type Signer interface {
	Sign(ctx context.Context, data []byte) ([]byte, error)
}

// Result is the outcome of publishing one module.
type Result struct {
	Module string
	Files  []string
	Err    error
}

// Publisher renders descriptor files and passes them to an Uploader.
type Publisher struct {
	uploader Uploader
	signer   Signer
}

// NewPublisher returns a publisher. signer may be nil if no descriptor
// requires signing.
func NewPublisher(uploader Uploader, signer Signer) *Publisher {
	return &Publisher{uploader: uploader, signer: signer}
}

// Files renders the descriptor file and its checksums, plus signatures when
// signing is required.
func (p *Publisher) Files(ctx context.Context, d *Descriptor) ([]Artifact, error) {
	data, err := yaml.Marshal(d.pom())
	if err != nil {
		return nil, fmt.Errorf("rendering descriptor: %w", err)
	}

	base := fmt.Sprintf("%s-%s.pom.yaml", d.coordinates.ArtifactID, d.coordinates.Version)
	sum256 := sha256.Sum256(data)
	sum512 := sha512.Sum512(data)
	files := []Artifact{
		{Name: base, Data: data},
		{Name: base + ".sha256", Data: []byte(hex.EncodeToString(sum256[:]))},
		{Name: base + ".sha512", Data: []byte(hex.EncodeToString(sum512[:]))},
	}

	if !d.sign {
		return files, nil
	}
	if p.signer == nil {
		return nil, fmt.Errorf("module %q requires signing but no signer is configured", d.module)
	}

	signed := make([]Artifact, 0, len(files)*2)
	for _, f := range files {
		sig, err := p.signer.Sign(ctx, f.Data)
		if err != nil {
			return nil, fmt.Errorf("signing %s: %w", f.Name, err)
		}
		signed = append(signed, f, Artifact{Name: f.Name + ".asc", Data: sig})
	}
	return signed, nil
}

// Publish uploads one descriptor. It fails with MissingCredentialsError when
// the repository requires authentication and both credentials are unresolved.
func (p *Publisher) Publish(ctx context.Context, d *Descriptor) ([]string, error) {
	repo := d.repository
	if repo.AuthRequired && repo.Username.IsUnresolved() && repo.Password.IsUnresolved() {
		return nil, &MissingCredentialsError{ModuleName: d.module, Repository: firstNonEmpty(repo.Name, repo.URL)}
	}

	files, err := p.Files(ctx, d)
	if err != nil {
		return nil, err
	}
	if err := p.uploader.Upload(ctx, d, files); err != nil {
		return nil, fmt.Errorf("uploading module %q: %w", d.module, err)
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	output.ModuleLogger(d.module).Debug("published", "coordinates", d.coordinates.String(), "files", len(files))
	return names, nil
}

// PublishAll publishes every descriptor. A failure does not stop the
// remaining modules; all failures are returned as one aggregate error.
func (p *Publisher) PublishAll(ctx context.Context, descriptors []*Descriptor) ([]Result, error) {
	results := make([]Result, 0, len(descriptors))
	var errs []error
	for _, d := range descriptors {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		files, err := p.Publish(ctx, d)
		results = append(results, Result{Module: d.module, Files: files, Err: err})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return results, utilerrors.NewAggregate(errs)
}
