package core

import "github.com/clusterlesshq/conventions/internal/credential"

// Fragment is a named, reusable convention applied to modules.
//
// Plugins may name core plugins, workspace plugins or other fragments. A
// fragment named in Plugins is applied as a prerequisite before the rest of
// this fragment.
type Fragment struct {
	Name string `json:"name"`

	Plugins []string `json:"plugins,omitempty"`

	// Constraints maps a coordinate (group:artifact) to a version.
	Constraints map[string]string `json:"constraints,omitempty"`

	// Catalog is a TOML version catalog path, relative to the workspace root.
	Catalog string `json:"catalog,omitempty"`

	// CatalogConstraints holds the entries read from Catalog. Set by the loader.
	CatalogConstraints map[string]string `json:"-"`

	Tasks        []TaskMutation  `json:"tasks,omitempty"`
	Properties   []PropertyWrite `json:"properties,omitempty"`
	Repositories []string        `json:"repositories,omitempty"`
	Toolchain    *Toolchain      `json:"toolchain,omitempty"`
	Testing      *TestSuite      `json:"testing,omitempty"`

	// Artifacts lists extra artifacts, for example "javadoc" and "sources".
	Artifacts []string `json:"artifacts,omitempty"`

	Publishing *PublishingSpec `json:"publishing,omitempty"`
}

// TaskMutation sets fields on a named task once the task exists.
type TaskMutation struct {
	Task string         `json:"task"`
	Set  map[string]any `json:"set"`
}

// PropertyWrite writes one PropertyStore key. Exactly one of Value,
// SystemProperty or Env names the source. A missing system property or
// environment variable stores an absent value.
type PropertyWrite struct {
	Key            string  `json:"key"`
	Value          *string `json:"value,omitempty"`
	SystemProperty string  `json:"systemProperty,omitempty"`
	Env            string  `json:"env,omitempty"`
}

// Toolchain selects the language level modules compile against.
type Toolchain struct {
	LanguageVersion int `json:"languageVersion"`
}

// TestSuite selects the test framework for the default test suite.
type TestSuite struct {
	Framework string `json:"framework"`
	Version   string `json:"version,omitempty"`
}

// PublishingSpec is partial publication metadata. Specs from successive
// fragments merge field-wise via Merge.
type PublishingSpec struct {
	Publication   string            `json:"publication,omitempty"`
	Group         string            `json:"group,omitempty"`
	ArtifactID    string            `json:"artifactId,omitempty"`
	Version       string            `json:"version,omitempty"`
	Name          string            `json:"name,omitempty"`
	Description   string            `json:"description,omitempty"`
	URL           string            `json:"url,omitempty"`
	InceptionYear string            `json:"inceptionYear,omitempty"`
	Licenses      []License         `json:"licenses,omitempty"`
	Developers    []Developer       `json:"developers,omitempty"`
	SCM           string            `json:"scm,omitempty"`
	Repository    *RepositoryTarget `json:"repository,omitempty"`
	Sign          *bool             `json:"sign,omitempty"`
}

// License is a POM licence entry.
type License struct {
	Name         string `json:"name"`
	URL          string `json:"url,omitempty"`
	Distribution string `json:"distribution,omitempty"`
}

// Developer is a POM developer entry.
type Developer struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// RepositoryTarget is the remote repository a publication is uploaded to.
type RepositoryTarget struct {
	Name        string            `json:"name,omitempty"`
	URL         string            `json:"url,omitempty"`
	SnapshotURL string            `json:"snapshotUrl,omitempty"`
	Credentials *CredentialChains `json:"credentials,omitempty"`

	// AuthRequired defaults to true when credential chains are declared.
	AuthRequired *bool `json:"authRequired,omitempty"`
}

// CredentialChains are the ranked sources for the repository username and password.
type CredentialChains struct {
	Username credential.Chain `json:"username,omitempty"`
	Password credential.Chain `json:"password,omitempty"`
}

// RequiresAuth reports whether uploads to the target must authenticate.
func (r *RepositoryTarget) RequiresAuth() bool {
	if r == nil {
		return false
	}
	if r.AuthRequired != nil {
		return *r.AuthRequired
	}
	return r.Credentials != nil && (len(r.Credentials.Username) > 0 || len(r.Credentials.Password) > 0)
}

// Clone returns a deep copy of p.
func (p *PublishingSpec) Clone() *PublishingSpec {
	if p == nil {
		return nil
	}
	out := *p
	out.Licenses = append([]License(nil), p.Licenses...)
	out.Developers = append([]Developer(nil), p.Developers...)
	if p.Sign != nil {
		sign := *p.Sign
		out.Sign = &sign
	}
	out.Repository = p.Repository.Clone()
	return &out
}

// Clone returns a deep copy of r.
func (r *RepositoryTarget) Clone() *RepositoryTarget {
	if r == nil {
		return nil
	}
	out := *r
	if r.AuthRequired != nil {
		auth := *r.AuthRequired
		out.AuthRequired = &auth
	}
	if r.Credentials != nil {
		out.Credentials = &CredentialChains{
			Username: append(credential.Chain(nil), r.Credentials.Username...),
			Password: append(credential.Chain(nil), r.Credentials.Password...),
		}
	}
	return &out
}

// Merge returns a new spec where non-empty fields of later override p.
// Lists are replaced, not appended.
func (p *PublishingSpec) Merge(later *PublishingSpec) *PublishingSpec {
	if p == nil {
		return later.Clone()
	}
	out := p.Clone()
	if later == nil {
		return out
	}

	overrideString(&out.Publication, later.Publication)
	overrideString(&out.Group, later.Group)
	overrideString(&out.ArtifactID, later.ArtifactID)
	overrideString(&out.Version, later.Version)
	overrideString(&out.Name, later.Name)
	overrideString(&out.Description, later.Description)
	overrideString(&out.URL, later.URL)
	overrideString(&out.InceptionYear, later.InceptionYear)
	overrideString(&out.SCM, later.SCM)

	if len(later.Licenses) > 0 {
		out.Licenses = append([]License(nil), later.Licenses...)
	}
	if len(later.Developers) > 0 {
		out.Developers = append([]Developer(nil), later.Developers...)
	}
	if later.Sign != nil {
		sign := *later.Sign
		out.Sign = &sign
	}
	out.Repository = out.Repository.merge(later.Repository)
	return out
}

func (r *RepositoryTarget) merge(later *RepositoryTarget) *RepositoryTarget {
	if r == nil {
		return later.Clone()
	}
	out := r.Clone()
	if later == nil {
		return out
	}
	overrideString(&out.Name, later.Name)
	overrideString(&out.URL, later.URL)
	overrideString(&out.SnapshotURL, later.SnapshotURL)
	if later.AuthRequired != nil {
		auth := *later.AuthRequired
		out.AuthRequired = &auth
	}
	if later.Credentials != nil {
		out.Credentials = later.Clone().Credentials
	}
	return out
}

func overrideString(dst *string, later string) {
	if later != "" {
		*dst = later
	}
}
