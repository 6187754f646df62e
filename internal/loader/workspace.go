// Package loader reads a workspace declaration from CUE files.
//
// The root file, workspace.cue, declares fragments, plugins, modules and seed
// fragments. Additional module declarations are read from files matched by the
// include globs, each holding a single module. Fragments that reference a TOML
// version catalog have it loaded here.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/clusterlesshq/conventions/internal/constraint"
	"github.com/clusterlesshq/conventions/internal/core"
	oerrors "github.com/clusterlesshq/conventions/internal/errors"
	"github.com/clusterlesshq/conventions/internal/output"
)

// FileName is the workspace declaration file at the workspace root.
const FileName = "workspace.cue"

// FindRoot walks up from start until it finds a directory holding FileName.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", oerrors.NewNotFoundError(
				fmt.Sprintf("no %s found in %s or any parent directory", FileName, start),
				start,
				"Pass --workspace or run conv inside a workspace.",
			)
		}
		dir = parent
	}
}

// Load reads and validates the workspace rooted at root.
func Load(cueCtx *cue.Context, root string) (*core.Workspace, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}

	path := filepath.Join(absRoot, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("workspace declaration not found", path, "Create "+FileName+" at the workspace root.")
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	ws, err := Parse(cueCtx, path, data)
	if err != nil {
		return nil, err
	}
	ws.Root = absRoot

	if err := loadIncludes(cueCtx, ws); err != nil {
		return nil, err
	}
	if err := loadCatalogs(ws); err != nil {
		return nil, err
	}
	if err := Validate(ws); err != nil {
		return nil, err
	}

	output.Debug("workspace loaded",
		"root", absRoot,
		"fragments", len(ws.Fragments),
		"plugins", len(ws.Plugins),
		"modules", len(ws.Modules),
	)
	return ws, nil
}

// Parse decodes a workspace declaration without resolving includes or catalogs.
func Parse(cueCtx *cue.Context, filename string, data []byte) (*core.Workspace, error) {
	ws := &core.Workspace{}
	if err := decode(cueCtx, filename, data, "#Workspace", ws); err != nil {
		return nil, err
	}
	if ws.Fragments == nil {
		ws.Fragments = make(map[string]*core.Fragment)
	}
	if ws.Modules == nil {
		ws.Modules = make(map[string]core.ModuleDecl)
	}
	for name, m := range ws.Modules {
		m.Path = filename
		ws.Modules[name] = m
	}
	return ws, nil
}

// loadIncludes adds one module per file matched by the include globs.
func loadIncludes(cueCtx *cue.Context, ws *core.Workspace) error {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range ws.Include {
		matches, err := doublestar.FilepathGlob(filepath.Join(ws.Root, pattern))
		if err != nil {
			return oerrors.NewValidationError(err.Error(), filepath.Join(ws.Root, FileName), "include", "Check the glob syntax.")
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}
		var decl core.ModuleDecl
		if err := decode(cueCtx, file, data, "#Module", &decl); err != nil {
			return err
		}
		if existing, ok := ws.Modules[decl.Name]; ok {
			return oerrors.NewValidationError(
				fmt.Sprintf("module %q already declared in %s", decl.Name, existing.Path),
				file, "name", "Module names must be unique across the workspace.",
			)
		}
		decl.Path = file
		ws.Modules[decl.Name] = decl
		output.Debug("module included", "module", decl.Name, "path", file)
	}
	return nil
}

func loadCatalogs(ws *core.Workspace) error {
	cache := make(map[string]map[string]string)
	load := func(f *core.Fragment) error {
		if f == nil || f.Catalog == "" {
			return nil
		}
		path := f.Catalog
		if !filepath.IsAbs(path) {
			path = filepath.Join(ws.Root, path)
		}
		entries, ok := cache[path]
		if !ok {
			var err error
			if entries, err = constraint.LoadCatalog(path); err != nil {
				return err
			}
			cache[path] = entries
		}
		f.CatalogConstraints = entries
		return nil
	}

	for _, f := range ws.Fragments {
		if err := load(f); err != nil {
			return err
		}
	}
	for _, m := range ws.Modules {
		if err := load(m.Overrides); err != nil {
			return err
		}
	}
	return nil
}
