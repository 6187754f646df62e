package loader

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/clusterlesshq/conventions/internal/core"
	oerrors "github.com/clusterlesshq/conventions/internal/errors"
	"github.com/clusterlesshq/conventions/internal/plugin"
)

// Validate checks cross references the schema cannot express: property write
// sources, fragment and plugin ids, seed fragments, module fragments and
// module references.
func Validate(ws *core.Workspace) error {
	location := filepath.Join(ws.Root, FileName)

	builtins := make(map[string]bool)
	for _, def := range plugin.Builtins() {
		builtins[def.ID] = true
	}

	for _, name := range sortedKeys(ws.Fragments) {
		_, declared := ws.Plugins[name]
		if declared || builtins[name] {
			return oerrors.NewValidationError(
				fmt.Sprintf("fragment %q has the same id as a plugin", name),
				location, "fragments."+name, "Rename the fragment; fragments and plugins share one namespace.",
			)
		}
		if err := validateFragment(ws.Fragments[name], location, "fragments."+name); err != nil {
			return err
		}
	}

	for i, name := range ws.Seed {
		if _, ok := ws.Fragments[name]; !ok {
			return oerrors.NewValidationError(
				fmt.Sprintf("seed fragment %q is not declared", name),
				location, fmt.Sprintf("seed[%d]", i), "Declare the fragment under fragments.",
			)
		}
	}

	for _, name := range sortedKeys(ws.Modules) {
		if err := validateModule(ws, ws.Modules[name]); err != nil {
			return err
		}
	}
	return nil
}

func validateFragment(f *core.Fragment, location, field string) error {
	if f == nil {
		return nil
	}
	for i, w := range f.Properties {
		sources := 0
		if w.Value != nil {
			sources++
		}
		if w.SystemProperty != "" {
			sources++
		}
		if w.Env != "" {
			sources++
		}
		if sources != 1 {
			return oerrors.NewValidationError(
				fmt.Sprintf("property write %q must set exactly one of value, systemProperty or env", w.Key),
				location, fmt.Sprintf("%s.properties[%d]", field, i), "",
			)
		}
	}
	return nil
}

func validateModule(ws *core.Workspace, m core.ModuleDecl) error {
	location := m.Path
	field := "modules." + m.Name

	for i, name := range m.Fragments {
		if _, ok := ws.Fragments[name]; !ok {
			return oerrors.NewNotFoundError(
				fmt.Sprintf("module %q applies undeclared fragment %q", m.Name, name),
				location, fmt.Sprintf("Declare %s under fragments (see %s.fragments[%d]).", name, field, i),
			)
		}
	}

	if err := validateFragment(m.Overrides, location, field+".overrides"); err != nil {
		return err
	}

	for i, d := range m.Dependencies {
		depField := fmt.Sprintf("%s.dependencies[%d]", field, i)
		if (d.Coordinate == "") == (d.Project == "") {
			return oerrors.NewValidationError("dependency must set exactly one of coordinate or project", location, depField, "")
		}
		if d.Project != "" {
			if _, ok := ws.Modules[d.Project]; !ok {
				return oerrors.NewValidationError(fmt.Sprintf("project %q is not a module of this workspace", d.Project), location, depField, "")
			}
		}
	}

	for i, after := range m.After {
		if _, ok := ws.Modules[after]; !ok {
			return oerrors.NewValidationError(
				fmt.Sprintf("module %q is not declared", after),
				location, fmt.Sprintf("%s.after[%d]", field, i), "",
			)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
