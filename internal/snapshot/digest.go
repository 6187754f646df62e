package snapshot

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/clusterlesshq/conventions/internal/core"
)

// ModuleDigest computes a deterministic SHA256 digest of a module state.
//
// encoding/json sorts map keys, so equal states always serialise to the same
// bytes. The result has the form "sha256:<hex>".
func ModuleDigest(state *core.ModuleState) string {
	b, err := json.Marshal(state)
	if err != nil {
		// ModuleState holds only JSON-safe values; keep a stable fallback anyway.
		b = []byte(fmt.Sprintf("%v", *state))
	}
	return fmt.Sprintf("sha256:%x", sha256.Sum256(b))
}

// Digest combines module digests into one digest independent of module order.
func Digest(digests map[string]string) string {
	names := make([]string, 0, len(digests))
	for name := range digests {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for i, name := range names {
		h.Write([]byte(name + "=" + digests[name]))
		if i < len(names)-1 {
			h.Write([]byte("\n"))
		}
	}
	return fmt.Sprintf("sha256:%x", h.Sum(nil))
}
