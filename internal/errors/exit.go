package errors

import "errors"

// Exit codes returned by the conv binary.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates a declaration failed validation.
	ExitValidationError = 2

	// ExitNotFound indicates a workspace, module, or file was not found.
	ExitNotFound = 5

	// ExitConfigurationError indicates a module could not be configured.
	ExitConfigurationError = 7

	// ExitMissingCredentials indicates a publish target had no credentials.
	ExitMissingCredentials = 8
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Code int
	Err  error

	// Printed is set once the command layer has shown the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError determines the exit code for err.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrMissingCredentials):
		return ExitMissingCredentials
	case errors.Is(err, ErrUnknownPlugin), errors.Is(err, ErrCyclicFragment):
		return ExitConfigurationError
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrValidation):
		return ExitValidationError
	default:
		return ExitGeneralError
	}
}

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitValidationError:
		return "Validation Error"
	case ExitNotFound:
		return "Not Found"
	case ExitConfigurationError:
		return "Configuration Error"
	case ExitMissingCredentials:
		return "Missing Credentials"
	default:
		return "Unknown"
	}
}
