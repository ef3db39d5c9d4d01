// Package diagnostic turns rule violations and build failures into the
// single diagnostic reported for a handler.
package diagnostic

import (
	"errors"

	"github.com/toyz/axon-debug/internal/rules"
	"github.com/toyz/axon-debug/internal/signature"
	"github.com/toyz/axon-debug/internal/syntax"
)

// MalformedInput is the rule id of diagnostics for items the analyzer could
// not read.
const MalformedInput = "malformed-input"

// Note is a secondary location attached to a diagnostic.
type Note struct {
	Message string      `json:"message"`
	Span    syntax.Span `json:"span"`
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	RuleID  string      `json:"rule"`
	Message string      `json:"message"`
	Span    syntax.Span `json:"span"`
	// Handler names the function the diagnostic is about, if any.
	Handler string `json:"handler,omitempty"`
	Notes   []Note `json:"notes,omitempty"`
}

// WithNote returns a copy of d with an extra note.
func (d Diagnostic) WithNote(message string, span syntax.Span) Diagnostic {
	d.Notes = append(append([]Note(nil), d.Notes...), Note{Message: message, Span: span})
	return d
}

// Select evaluates set against m in order and returns the diagnostic for the
// first rule m violates, or nil when m is a valid handler.
func Select(m *signature.Model, set *rules.Set) (*Diagnostic, error) {
	for _, rule := range set.Rules() {
		v := rule.Check(m)
		if v == nil {
			continue
		}
		msg, err := rule.Render(m, v)
		if err != nil {
			return nil, err
		}
		return &Diagnostic{RuleID: rule.ID, Message: msg, Span: v.Span, Handler: m.Name}, nil
	}
	return nil, nil
}

// FromError converts a front-end failure into a malformed-input diagnostic.
// ok is false for errors that carry no source location.
func FromError(err error) (d *Diagnostic, ok bool) {
	var (
		buildErr *signature.BuildError
		parseErr *syntax.ParseError
	)
	switch {
	case errors.As(err, &buildErr):
		return &Diagnostic{RuleID: MalformedInput, Message: buildErr.Message, Span: buildErr.Span}, true
	case errors.As(err, &parseErr):
		return &Diagnostic{RuleID: MalformedInput, Message: "could not parse file: " + parseErr.Message, Span: parseErr.Span}, true
	}
	return nil, false
}
