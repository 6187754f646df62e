package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clusterlesshq/conventions/internal/core"
	oerrors "github.com/clusterlesshq/conventions/internal/errors"
	"github.com/clusterlesshq/conventions/internal/output"
)

// reportError prints err in a user-friendly format and returns it as a
// printed *ExitError carrying the matching exit code.
func reportError(cmd *cobra.Command, msg string, err error) error {
	var (
		detailErr *oerrors.DetailError
		configErr core.ConfigurationError
	)

	switch {
	case errors.As(err, &detailErr):
		output.Error(msg)
		fmt.Fprint(cmd.ErrOrStderr(), detailErr.Error())
	case errors.As(err, &configErr):
		output.ModuleLogger(configErr.Module()).Error(msg, "error", configErr.Error())
	default:
		output.Error(msg, "error", err)
	}

	return &oerrors.ExitError{
		Code:    oerrors.ExitCodeFromError(err),
		Err:     err,
		Printed: true,
	}
}

// unknownModuleError reports a module argument that names no selectable module.
func unknownModuleError(name, reason string) error {
	return oerrors.NewNotFoundError(
		fmt.Sprintf("module %q %s", name, reason),
		"",
		"Run 'conv resolve -o table' to list the workspace modules.",
	)
}
