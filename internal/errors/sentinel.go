package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates a workspace declaration failed schema validation.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a workspace, module, or file was not found.
	ErrNotFound = errors.New("not found")

	// ErrUnknownPlugin indicates a plugin or fragment identifier could not be located.
	ErrUnknownPlugin = errors.New("unknown plugin")

	// ErrCyclicFragment indicates a fragment transitively applies itself.
	ErrCyclicFragment = errors.New("cyclic fragment")

	// ErrMissingCredentials indicates an authenticated repository has no resolved credentials.
	ErrMissingCredentials = errors.New("missing credentials")
)
