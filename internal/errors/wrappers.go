package errors

import "fmt"

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		With("operation", operation).
		With("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(path, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, path)
	return Wrap(ConfigurationErrorCode, message, cause).
		With("path", path).
		With("operation", operation)
}

// WrapClassificationError wraps failures loading a type classification table.
func WrapClassificationError(source string, cause error) *BaseError {
	message := fmt.Sprintf("failed to load classification table '%s'", source)
	return Wrap(ClassificationErrorCode, message, cause).
		With("source", source)
}

// WrapTemplateError wraps rule message template failures.
func WrapTemplateError(rule, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s message template for rule '%s'", operation, rule)
	return Wrap(TemplateErrorCode, message, cause).
		With("rule", rule)
}

// ConfigurationError creates a configuration error
func ConfigurationError(path, message string) *BaseError {
	return New(ConfigurationErrorCode, fmt.Sprintf("configuration error in '%s': %s", path, message)).
		With("path", path)
}
