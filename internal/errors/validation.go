package errors

import "fmt"

// ValidationError reports a configuration or table value that is well
// formed but not acceptable.
type ValidationError struct {
	*BaseError
	Field    string
	Value    interface{}
	Expected string
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, expected string) *ValidationError {
	message := fmt.Sprintf("invalid %s %q: expected %s", field, fmt.Sprint(value), expected)
	return &ValidationError{
		BaseError: New(ValidationErrorCode, message),
		Field:     field,
		Value:     value,
		Expected:  expected,
	}
}

// BuildError reports a declaration the signature builder cannot model:
// an annotated item that is not a function, or a function whose syntax
// could not be read.
type BuildError struct {
	*BaseError
	Item string
}

// NewBuildError creates a build error for the described item.
func NewBuildError(item, message string) *BuildError {
	return &BuildError{
		BaseError: New(BuildErrorCode, message),
		Item:      item,
	}
}

// SyntaxError reports source text the front end could not tokenize or parse.
type SyntaxError struct {
	*BaseError
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string, loc SourceLocation) *SyntaxError {
	return &SyntaxError{BaseError: New(SyntaxErrorCode, message).WithLocation(loc)}
}
