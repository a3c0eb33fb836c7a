package config

import "fmt"

// UserError is a CLI-facing configuration error with a suggestion, kept
// separate from the technical cause so the default output stays readable.
type UserError struct {
	Message    string
	Context    string
	Suggestion string
	Underlying error
}

// Error returns the user-facing message.
func (e *UserError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s (at %s)", e.Message, e.Context)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *UserError) Unwrap() error {
	return e.Underlying
}

// NewConfigNotFoundError creates an error for a missing manifest.
func NewConfigNotFoundError(path string) *UserError {
	return &UserError{
		Message:    "configuration file not found",
		Context:    path,
		Suggestion: "Create a groundwork.yaml manifest or pass --config with its location.",
	}
}

// NewYAMLParseError creates an error for malformed manifest content.
func NewYAMLParseError(path string, err error) *UserError {
	return &UserError{
		Message:    "configuration file is not valid YAML",
		Context:    path,
		Suggestion: "Check indentation and quoting near the reported line.",
		Underlying: err,
	}
}

// NewInvalidConfigError creates an error for semantically invalid
// configuration.
func NewInvalidConfigError(context, message string) *UserError {
	return &UserError{
		Message: message,
		Context: context,
	}
}
