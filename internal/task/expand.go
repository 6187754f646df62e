package task

import (
	"regexp"

	"github.com/clusterlesshq/conventions/internal/property"
)

// ModuleNameKey is the placeholder key that expands to the module name.
const ModuleNameKey = "module.name"

// Expander rewrites ${key} placeholders in a string value.
type Expander func(string) string

var placeholder = regexp.MustCompile(`\$\{([A-Za-z0-9_.\-]+)\}`)

// Lookup reads a property value; false means absent.
type Lookup func(key string) (string, bool)

// NewExpander returns an Expander resolving ${module.name} to module and any
// other key through lookup at call time. Unknown keys and credential keys are
// left verbatim.
func NewExpander(module string, lookup Lookup) Expander {
	return func(s string) string {
		return placeholder.ReplaceAllStringFunc(s, func(match string) string {
			key := placeholder.FindStringSubmatch(match)[1]
			if key == ModuleNameKey {
				return module
			}
			if lookup != nil && !property.IsSecret(key) {
				if v, ok := lookup(key); ok {
					return v
				}
			}
			return match
		})
	}
}
