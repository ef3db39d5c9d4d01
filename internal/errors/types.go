package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// AxonError is implemented by every error the analyzer reports outside of
// diagnostics: configuration, table, file system and build failures.
type AxonError interface {
	error
	ErrorCode() ErrorCode
	Location() SourceLocation
	Field(key string) (any, bool)
	Suggestions() []string
	Unwrap() error
}

// ErrorCode classifies an AxonError.
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota
	SyntaxErrorCode
	BuildErrorCode
	ValidationErrorCode
	ClassificationErrorCode
	TemplateErrorCode
	FileSystemErrorCode
	ConfigurationErrorCode
)

var codeNames = [...]string{
	UnknownErrorCode:        "UnknownError",
	SyntaxErrorCode:         "SyntaxError",
	BuildErrorCode:          "BuildError",
	ValidationErrorCode:     "ValidationError",
	ClassificationErrorCode: "ClassificationError",
	TemplateErrorCode:       "TemplateError",
	FileSystemErrorCode:     "FileSystemError",
	ConfigurationErrorCode:  "ConfigurationError",
}

func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return codeNames[UnknownErrorCode]
	}
	return codeNames[c]
}

// SourceLocation is a 1-based file position. Zero Line or Column means the
// part is unknown.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (s SourceLocation) String() string {
	if s.File == "" {
		return "unknown location"
	}
	parts := []string{s.File}
	if s.Line > 0 {
		parts = append(parts, strconv.Itoa(s.Line))
		if s.Column > 0 {
			parts = append(parts, strconv.Itoa(s.Column))
		}
	}
	return strings.Join(parts, ":")
}

// IsEmpty reports whether the location names no file.
func (s SourceLocation) IsEmpty() bool {
	return s.File == ""
}

// BaseError is the AxonError the typed errors of this package embed.
type BaseError struct {
	Code    ErrorCode
	Message string
	Loc     SourceLocation
	Cause   error
	Fields  map[string]any
	Hints   []string
}

func (e *BaseError) Error() string {
	var b strings.Builder
	if !e.Loc.IsEmpty() {
		b.WriteString(e.Loc.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *BaseError) ErrorCode() ErrorCode     { return e.Code }
func (e *BaseError) Location() SourceLocation { return e.Loc }
func (e *BaseError) Suggestions() []string    { return e.Hints }
func (e *BaseError) Unwrap() error            { return e.Cause }

// Field returns a value attached with With.
func (e *BaseError) Field(key string) (any, bool) {
	v, ok := e.Fields[key]
	return v, ok
}

// WithLocation sets where the error occurred.
func (e *BaseError) WithLocation(loc SourceLocation) *BaseError {
	e.Loc = loc
	return e
}

// With attaches a value under key, such as the path or operation involved.
func (e *BaseError) With(key string, value any) *BaseError {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

// WithSuggestion appends a hint shown to the user after the message.
func (e *BaseError) WithSuggestion(hint string) *BaseError {
	e.Hints = append(e.Hints, hint)
	return e
}

func New(code ErrorCode, message string) *BaseError {
	return &BaseError{Code: code, Message: message}
}

func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{Code: code, Message: message, Cause: cause}
}

// MultipleErrors collects the failures of independent units of work, such
// as the files of one run, so that one failure does not hide the others.
type MultipleErrors struct {
	Errors []AxonError
}

func NewMultipleErrors() *MultipleErrors {
	return &MultipleErrors{}
}

func (m *MultipleErrors) Error() string {
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(m.Errors))
	for _, err := range m.Errors {
		b.WriteString("\n\t")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap lets errors.Is and errors.As see every collected error.
func (m *MultipleErrors) Unwrap() []error {
	out := make([]error, 0, len(m.Errors))
	for _, err := range m.Errors {
		out = append(out, err)
	}
	return out
}

func (m *MultipleErrors) Add(err AxonError) {
	m.Errors = append(m.Errors, err)
}

// ErrOrNil returns nil when nothing was collected.
func (m *MultipleErrors) ErrOrNil() error {
	if m == nil || len(m.Errors) == 0 {
		return nil
	}
	return m
}

// HasCode reports whether any collected error carries code.
func (m *MultipleErrors) HasCode(code ErrorCode) bool {
	for _, err := range m.Errors {
		if err.ErrorCode() == code {
			return true
		}
	}
	return false
}
