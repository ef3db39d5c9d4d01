package utils

import "fmt"

// Error wrappers shared by the file handling code.

// WrapReadError wraps an error with a "failed to read" message
func WrapReadError(path string, err error) error {
	return fmt.Errorf("failed to read %s: %w", path, err)
}

// WrapProcessError wraps an error with a "failed to process" message
func WrapProcessError(item string, err error) error {
	return fmt.Errorf("failed to process %s: %w", item, err)
}

// WrapEmitError wraps an error with a "failed to emit" message
func WrapEmitError(item string, err error) error {
	return fmt.Errorf("failed to emit %s: %w", item, err)
}
