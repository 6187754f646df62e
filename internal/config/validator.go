package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Validate checks a loaded configuration.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	for i, entry := range cfg.SystemProperties {
		if _, _, err := splitProperty(entry); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("systemProperties[%d]", i),
				Message: err.Error(),
			})
		}
	}

	if cfg.Workspace != "" && strings.TrimSpace(cfg.Workspace) == "" {
		errs = append(errs, ValidationError{
			Field:   "workspace",
			Message: "must not be empty or whitespace only",
		})
	}

	if cfg.Publish.RepoDir != "" && strings.TrimSpace(cfg.Publish.RepoDir) == "" {
		errs = append(errs, ValidationError{
			Field:   "publish.repoDir",
			Message: "must not be empty or whitespace only",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateFile loads and validates the configuration file at path.
func ValidateFile(path string) error {
	cfg, err := NewLoader().Load(path)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	return Validate(cfg)
}
