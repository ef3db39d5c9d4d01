// Package emitter writes diagnostics for people and for machines.
package emitter

import (
	"github.com/toyz/axon-debug/internal/diagnostic"
)

// Emitter writes diagnostics to an output stream. Close must be called once
// all diagnostics have been emitted.
type Emitter interface {
	Emit(d diagnostic.Diagnostic) error
	Close() error
	// Invalid returns the items reported so far, in emission order.
	Invalid() []string
}

// Sources supplies the text of the files diagnostics point into.
type Sources interface {
	Source(file string) (string, bool)
}

// SourceMap is a Sources backed by a map of file name to text.
type SourceMap map[string]string

func (m SourceMap) Source(file string) (string, bool) {
	s, ok := m[file]
	return s, ok
}

// tracker records the items an emitter reported.
type tracker struct {
	invalid []string
}

func (t *tracker) record(d diagnostic.Diagnostic) {
	item := d.Handler
	if item == "" {
		item = d.Span.String()
	}
	t.invalid = append(t.invalid, item)
}

func (t *tracker) Invalid() []string {
	return append([]string(nil), t.invalid...)
}

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f == FormatText || f == FormatJSON
}
