package publish

import (
	"fmt"
	"strings"

	"github.com/clusterlesshq/conventions/internal/core"
	"github.com/clusterlesshq/conventions/internal/credential"
	oerrors "github.com/clusterlesshq/conventions/internal/errors"
	"github.com/clusterlesshq/conventions/internal/output"
	"github.com/clusterlesshq/conventions/internal/property"
)

// Assembler builds descriptors from composed module state.
type Assembler struct {
	env credential.Environment
}

// NewAssembler returns an assembler resolving repository credentials against
// env. Property sources are always read from the module being assembled.
func NewAssembler(env credential.Environment) *Assembler {
	return &Assembler{env: env}
}

// Assemble builds the descriptor for state from the properties the module
// observed. Missing credentials are not an error here; the Publisher decides
// whether they are fatal.
func (a *Assembler) Assemble(state *core.ModuleState) (*Descriptor, error) {
	spec := state.Publishing
	if spec == nil {
		return nil, &oerrors.DetailError{
			Type:    "validation failed",
			Message: fmt.Sprintf("module %q has no publishing configuration", state.Name),
			Hint:    "Apply a fragment that declares publishing metadata.",
			Cause:   oerrors.ErrValidation,
		}
	}

	props := state.Properties
	d := &Descriptor{
		module:        state.Name,
		publication:   spec.Publication,
		name:          spec.Name,
		description:   spec.Description,
		url:           spec.URL,
		inceptionYear: spec.InceptionYear,
		scm:           spec.SCM,
		licenses:      append([]core.License(nil), spec.Licenses...),
		developers:    append([]core.Developer(nil), spec.Developers...),
		artifacts:     append([]string(nil), state.Artifacts...),
		coordinates: Coordinates{
			Group:      firstNonEmpty(spec.Group, props[property.KeyGroup]),
			ArtifactID: firstNonEmpty(spec.ArtifactID, state.Name),
			Version:    firstNonEmpty(spec.Version, props[property.KeyVersion]),
		},
		sign: spec.Sign != nil && *spec.Sign,
	}

	if target := spec.Repository; target != nil {
		d.repository = Repository{
			Name:         target.Name,
			URL:          target.URL,
			Username:     credential.Unresolved,
			Password:     credential.Unresolved,
			AuthRequired: target.RequiresAuth(),
		}
		if strings.HasSuffix(d.coordinates.Version, snapshotSuffix) && target.SnapshotURL != "" {
			d.repository.URL = target.SnapshotURL
		}
		if target.Credentials != nil {
			env := a.env
			env.Properties = credential.PropertyMap(props)
			creds := credential.NewResolver(env)
			d.repository.Username = creds.Resolve("username", target.Credentials.Username)
			d.repository.Password = creds.Resolve("password", target.Credentials.Password)
		}
	}

	output.ModuleLogger(state.Name).Debug("descriptor assembled",
		"coordinates", d.coordinates.String(),
		"repository", d.repository.URL,
		"sign", d.sign,
	)
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
