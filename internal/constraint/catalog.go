package constraint

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	oerrors "github.com/clusterlesshq/conventions/internal/errors"
)

// catalogFile is the subset of a version catalog that carries constraints.
type catalogFile struct {
	Versions  map[string]any `toml:"versions"`
	Libraries map[string]any `toml:"libraries"`
}

// LoadCatalog reads a TOML version catalog and returns coordinate to version.
func LoadCatalog(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("version catalog not found", path, "Check the catalog path in the fragment declaration.")
		}
		return nil, fmt.Errorf("reading version catalog %s: %w", path, err)
	}
	return ParseCatalog(path, data)
}

// ParseCatalog parses catalog data. Library entries may be a
// "group:artifact:version" string or a table with module (or group and name)
// and a version given inline or as version.ref into [versions].
func ParseCatalog(path string, data []byte) (map[string]string, error) {
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, &oerrors.DetailError{
			Type:     "invalid version catalog",
			Message:  err.Error(),
			Location: path,
			Hint:     "Check the TOML syntax of the catalog file.",
			Cause:    oerrors.ErrValidation,
		}
	}

	versions := make(map[string]string, len(file.Versions))
	for alias, raw := range file.Versions {
		v, err := versionString(raw, nil)
		if err != nil {
			return nil, catalogError(path, "versions."+alias, err)
		}
		versions[alias] = v
	}

	out := make(map[string]string, len(file.Libraries))
	for alias, raw := range file.Libraries {
		coordinate, version, err := parseLibrary(raw, versions)
		if err != nil {
			return nil, catalogError(path, "libraries."+alias, err)
		}
		if version == "" {
			continue
		}
		out[coordinate] = version
	}
	return out, nil
}

func parseLibrary(raw any, versions map[string]string) (string, string, error) {
	switch lib := raw.(type) {
	case string:
		parts := strings.Split(lib, ":")
		switch len(parts) {
		case 2:
			return lib, "", nil
		case 3:
			return parts[0] + ":" + parts[1], parts[2], nil
		default:
			return "", "", fmt.Errorf("expected group:artifact[:version], got %q", lib)
		}
	case map[string]any:
		coordinate, _ := lib["module"].(string)
		if coordinate == "" {
			group, _ := lib["group"].(string)
			name, _ := lib["name"].(string)
			if group == "" || name == "" {
				return "", "", fmt.Errorf("library needs module or group and name")
			}
			coordinate = group + ":" + name
		}
		raw, ok := lib["version"]
		if !ok {
			return coordinate, "", nil
		}
		version, err := versionString(raw, versions)
		if err != nil {
			return "", "", err
		}
		return coordinate, version, nil
	default:
		return "", "", fmt.Errorf("unsupported library entry of type %T", raw)
	}
}

// versionString resolves a version value: a string, or a table holding ref,
// strictly, require or prefer. refs are only valid when versions is non-nil.
func versionString(raw any, versions map[string]string) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case map[string]any:
		if ref, ok := v["ref"].(string); ok {
			if versions == nil {
				return "", fmt.Errorf("version.ref not allowed here")
			}
			resolved, ok := versions[ref]
			if !ok {
				return "", fmt.Errorf("version.ref %q not declared in [versions]", ref)
			}
			return resolved, nil
		}
		for _, key := range []string{"strictly", "require", "prefer"} {
			if s, ok := v[key].(string); ok {
				return s, nil
			}
		}
		return "", fmt.Errorf("version table has no ref, strictly, require or prefer")
	default:
		return "", fmt.Errorf("unsupported version of type %T", raw)
	}
}

func catalogError(path, field string, err error) error {
	return &oerrors.DetailError{
		Type:     "invalid version catalog",
		Message:  err.Error(),
		Location: path,
		Field:    field,
		Cause:    oerrors.ErrValidation,
	}
}
