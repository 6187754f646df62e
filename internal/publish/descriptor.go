// Package publish assembles publication descriptors for configured modules and
// hands them to an upload collaborator.
package publish

import (
	"strings"

	"github.com/clusterlesshq/conventions/internal/core"
	"github.com/clusterlesshq/conventions/internal/credential"
)

const snapshotSuffix = "-SNAPSHOT"

// Coordinates identify a published artifact.
type Coordinates struct {
	Group      string `json:"group"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version"`
}

// String renders group:artifactId:version.
func (c Coordinates) String() string {
	return c.Group + ":" + c.ArtifactID + ":" + c.Version
}

// Repository is the resolved upload target.
type Repository struct {
	Name         string
	URL          string
	Username     credential.Result
	Password     credential.Result
	AuthRequired bool
}

// Descriptor is the publication metadata of one module. It cannot be changed
// after assembly; accessors return copies.
type Descriptor struct {
	module        string
	publication   string
	name          string
	description   string
	url           string
	inceptionYear string
	scm           string
	licenses      []core.License
	developers    []core.Developer
	coordinates   Coordinates
	artifacts     []string
	repository    Repository
	sign          bool
}

// Module returns the name of the module the descriptor was assembled for.
func (d *Descriptor) Module() string { return d.module }

// Publication returns the publication name, for example "mavenJava".
func (d *Descriptor) Publication() string { return d.publication }

// Name returns the human-readable project name.
func (d *Descriptor) Name() string { return d.name }

// Description returns the project description.
func (d *Descriptor) Description() string { return d.description }

// URL returns the project home page.
func (d *Descriptor) URL() string { return d.url }

// InceptionYear returns the year the project started.
func (d *Descriptor) InceptionYear() string { return d.inceptionYear }

// SCM returns the source repository URL.
func (d *Descriptor) SCM() string { return d.scm }

// Licenses returns a copy of the licence list.
func (d *Descriptor) Licenses() []core.License {
	return append([]core.License(nil), d.licenses...)
}

// Developers returns a copy of the developer list.
func (d *Descriptor) Developers() []core.Developer {
	return append([]core.Developer(nil), d.developers...)
}

// Coordinates returns the Maven coordinates.
func (d *Descriptor) Coordinates() Coordinates { return d.coordinates }

// Artifacts returns the extra artifacts published alongside the main one.
func (d *Descriptor) Artifacts() []string {
	return append([]string(nil), d.artifacts...)
}

// Repository returns the upload target with its resolved credentials.
func (d *Descriptor) Repository() Repository {
	r := d.repository
	r.Username.Shadowed = append([]credential.Source(nil), r.Username.Shadowed...)
	r.Password.Shadowed = append([]credential.Source(nil), r.Password.Shadowed...)
	return r
}

// SigningRequired reports whether artifacts must be signed before upload.
func (d *Descriptor) SigningRequired() bool { return d.sign }

// IsSnapshot reports whether the version is a snapshot version.
func (d *Descriptor) IsSnapshot() bool {
	return strings.HasSuffix(d.coordinates.Version, snapshotSuffix)
}

// View is a serialisable rendering of a Descriptor. Credential values are
// replaced by the source that provided them.
type View struct {
	Module        string           `json:"module"`
	Publication   string           `json:"publication,omitempty"`
	Coordinates   Coordinates      `json:"coordinates"`
	Name          string           `json:"name,omitempty"`
	Description   string           `json:"description,omitempty"`
	URL           string           `json:"url,omitempty"`
	InceptionYear string           `json:"inceptionYear,omitempty"`
	Licenses      []core.License   `json:"licenses,omitempty"`
	Developers    []core.Developer `json:"developers,omitempty"`
	SCM           string           `json:"scm,omitempty"`
	Artifacts     []string         `json:"artifacts,omitempty"`
	Repository    *RepositoryView  `json:"repository,omitempty"`
	Sign          bool             `json:"sign"`
}

// RepositoryView is the serialisable form of Repository.
type RepositoryView struct {
	Name         string `json:"name,omitempty"`
	URL          string `json:"url"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	AuthRequired bool   `json:"authRequired"`
}

// View returns the serialisable rendering of d.
func (d *Descriptor) View() View {
	v := View{
		Module:        d.module,
		Publication:   d.publication,
		Coordinates:   d.coordinates,
		Name:          d.name,
		Description:   d.description,
		URL:           d.url,
		InceptionYear: d.inceptionYear,
		Licenses:      d.Licenses(),
		Developers:    d.Developers(),
		SCM:           d.scm,
		Artifacts:     d.Artifacts(),
		Sign:          d.sign,
	}
	if d.repository.URL != "" {
		v.Repository = &RepositoryView{
			Name:         d.repository.Name,
			URL:          d.repository.URL,
			Username:     describeCredential(d.repository.Username),
			Password:     describeCredential(d.repository.Password),
			AuthRequired: d.repository.AuthRequired,
		}
	}
	return v
}

func describeCredential(r credential.Result) string {
	if r.IsUnresolved() {
		return r.String()
	}
	return r.Source.String()
}

// pom is the descriptor file written next to uploaded artifacts.
type pom struct {
	Coordinates   Coordinates      `json:"coordinates"`
	Name          string           `json:"name,omitempty"`
	Description   string           `json:"description,omitempty"`
	URL           string           `json:"url,omitempty"`
	InceptionYear string           `json:"inceptionYear,omitempty"`
	Licenses      []core.License   `json:"licenses,omitempty"`
	Developers    []core.Developer `json:"developers,omitempty"`
	SCM           string           `json:"scm,omitempty"`
	Artifacts     []string         `json:"artifacts,omitempty"`
}

func (d *Descriptor) pom() pom {
	return pom{
		Coordinates:   d.coordinates,
		Name:          d.name,
		Description:   d.description,
		URL:           d.url,
		InceptionYear: d.inceptionYear,
		Licenses:      d.Licenses(),
		Developers:    d.Developers(),
		SCM:           d.scm,
		Artifacts:     d.Artifacts(),
	}
}
