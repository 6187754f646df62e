// Package credential resolves named secrets from ranked sources.
//
// A secret is described by an ordered Chain of sources. Resolution walks the
// chain and returns the first non-empty value; a present but empty value is
// treated as absent so that a blank override never authenticates.
package credential

import (
	"fmt"
	"os"
)

// Kind identifies where a source reads its value from.
type Kind string

const (
	// KindProperty reads a key from the build property store.
	KindProperty Kind = "property"
	// KindSystemProperty reads a -D system property supplied to the invocation.
	KindSystemProperty Kind = "systemProperty"
	// KindEnv reads a process environment variable.
	KindEnv Kind = "env"
)

// Source is a single named origin for a secret value.
type Source struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
}

// String renders the source as kind:name.
func (s Source) String() string {
	return fmt.Sprintf("%s:%s", s.Kind, s.Name)
}

// Chain is an ordered list of sources, highest precedence first.
type Chain []Source

// Property returns a source reading the property store key name.
func Property(name string) Source { return Source{Kind: KindProperty, Name: name} }

// SystemProperty returns a source reading the system property name.
func SystemProperty(name string) Source { return Source{Kind: KindSystemProperty, Name: name} }

// Env returns a source reading the environment variable name.
func Env(name string) Source { return Source{Kind: KindEnv, Name: name} }

// PropertyReader is the read side of the build property store.
type PropertyReader interface {
	Lookup(key string) (string, bool)
}

// PropertyMap is a fixed set of property values.
type PropertyMap map[string]string

// Lookup implements PropertyReader.
func (m PropertyMap) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Environment is the process state sources are evaluated against.
type Environment struct {
	// Properties is the build property store. May be nil.
	Properties PropertyReader

	// SystemProperties are the -D key=value pairs of the invocation.
	SystemProperties map[string]string

	// LookupEnv reads an environment variable. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// lookup evaluates a single source.
func (e Environment) lookup(s Source) (string, bool) {
	switch s.Kind {
	case KindProperty:
		if e.Properties == nil {
			return "", false
		}
		return e.Properties.Lookup(s.Name)
	case KindSystemProperty:
		v, ok := e.SystemProperties[s.Name]
		return v, ok
	case KindEnv:
		lookupEnv := e.LookupEnv
		if lookupEnv == nil {
			lookupEnv = os.LookupEnv
		}
		return lookupEnv(s.Name)
	default:
		return "", false
	}
}
