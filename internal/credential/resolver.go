package credential

import (
	"github.com/clusterlesshq/conventions/internal/output"
)

// Result is the outcome of resolving a secret.
type Result struct {
	// Name is the secret being resolved (e.g. "username").
	Name string

	// Source is the source that produced the value. Zero when unresolved.
	Source Source

	// Shadowed lists lower-precedence sources that also held a value.
	Shadowed []Source

	value    string
	resolved bool
}

// Unresolved is the result for a secret no source could provide.
var Unresolved = Result{}

// IsUnresolved reports whether no source yielded a value.
func (r Result) IsUnresolved() bool {
	return !r.resolved
}

// Secret returns the resolved value, or "" when unresolved.
func (r Result) Secret() string {
	return r.value
}

// String never reveals the secret.
func (r Result) String() string {
	if !r.resolved {
		return "<unresolved>"
	}
	return "****"
}

// Resolver resolves secrets against a fixed Environment.
type Resolver struct {
	env Environment
}

// NewResolver creates a resolver over env.
func NewResolver(env Environment) *Resolver {
	return &Resolver{env: env}
}

// Resolve evaluates chain in order and returns the first non-empty value.
// It never fails: an exhausted chain yields an unresolved Result.
func (r *Resolver) Resolve(name string, chain Chain) Result {
	result := Result{Name: name}

	for _, src := range chain {
		v, ok := r.env.lookup(src)
		if !ok || v == "" {
			continue
		}
		if result.resolved {
			result.Shadowed = append(result.Shadowed, src)
			continue
		}
		result.value = v
		result.Source = src
		result.resolved = true
	}

	if result.resolved {
		output.Debug("credential resolved", "secret", name, "source", result.Source.String())
	} else {
		output.Debug("credential unresolved", "secret", name, "sources", len(chain))
	}

	return result
}
