package publish

import (
	"fmt"

	oerrors "github.com/clusterlesshq/conventions/internal/errors"
)

// MissingCredentialsError indicates an upload to a repository that requires
// authentication when neither credential could be resolved.
type MissingCredentialsError struct {
	ModuleName string
	Repository string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("module %q: repository %q requires credentials but none were resolved", e.ModuleName, e.Repository)
}

func (e *MissingCredentialsError) Unwrap() error {
	return oerrors.ErrMissingCredentials
}

// Module implements core.ConfigurationError.
func (e *MissingCredentialsError) Module() string {
	return e.ModuleName
}
