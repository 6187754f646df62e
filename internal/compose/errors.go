package compose

import (
	"fmt"
	"strings"

	oerrors "github.com/clusterlesshq/conventions/internal/errors"
)

// UnknownPluginError indicates a fragment named an identifier that is neither
// a fragment nor a registered plugin.
type UnknownPluginError struct {
	ModuleName string
	Fragment   string
	Plugin     string
}

func (e *UnknownPluginError) Error() string {
	return fmt.Sprintf("module %q, fragment %q: unknown plugin %q", e.ModuleName, e.Fragment, e.Plugin)
}

func (e *UnknownPluginError) Unwrap() error {
	return oerrors.ErrUnknownPlugin
}

// Module implements core.ConfigurationError.
func (e *UnknownPluginError) Module() string {
	return e.ModuleName
}

// UnknownFragmentError indicates a module declared a fragment that does not exist.
type UnknownFragmentError struct {
	ModuleName string
	Fragment   string
}

func (e *UnknownFragmentError) Error() string {
	return fmt.Sprintf("module %q: unknown fragment %q", e.ModuleName, e.Fragment)
}

func (e *UnknownFragmentError) Unwrap() error {
	return oerrors.ErrNotFound
}

// Module implements core.ConfigurationError.
func (e *UnknownFragmentError) Module() string {
	return e.ModuleName
}

// CyclicFragmentError indicates fragments that apply each other. Path starts
// and ends with the same fragment.
type CyclicFragmentError struct {
	ModuleName string
	Path       []string
}

func (e *CyclicFragmentError) Error() string {
	return fmt.Sprintf("module %q: cyclic fragment application: %s", e.ModuleName, strings.Join(e.Path, " -> "))
}

func (e *CyclicFragmentError) Unwrap() error {
	return oerrors.ErrCyclicFragment
}

// Module implements core.ConfigurationError.
func (e *CyclicFragmentError) Module() string {
	return e.ModuleName
}
