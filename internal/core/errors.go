package core

// ConfigurationError is implemented by errors raised while configuring or
// publishing a specific module.
type ConfigurationError interface {
	error

	// Module returns the name of the module being configured.
	Module() string
}
