// Package rules holds the handler contract: the checks a function signature
// must pass to be usable as a request handler, in the order they are
// evaluated.
package rules

import (
	"strings"
	"text/template"

	"github.com/toyz/axon-debug/internal/classify"
	"github.com/toyz/axon-debug/internal/errors"
	"github.com/toyz/axon-debug/internal/signature"
	"github.com/toyz/axon-debug/internal/syntax"
)

// Rule identifiers, in evaluation order.
const (
	AsyncHandler       = "async-handler"
	UnknownExtractor   = "unknown-extractor"
	BodyExtractorOrder = "body-extractor-order"
	UnknownResponse    = "unknown-response"
)

// Classifier answers the type questions the rules ask.
type Classifier interface {
	Argument(ref signature.TypeRef) classify.Argument
	Response(ref signature.TypeRef) bool
}

// Violation locates a broken rule.
type Violation struct {
	Span syntax.Span
	// Subject is the source text the message talks about.
	Subject string
}

// Rule is one necessary condition of the handler contract. Check must be
// total: it is evaluated against any model, whatever other rules report.
type Rule struct {
	ID      string
	Summary string
	Message *template.Template
	Check   func(m *signature.Model) *Violation
}

// Passes reports whether m satisfies the rule.
func (r Rule) Passes(m *signature.Model) bool {
	return r.Check(m) == nil
}

// Span returns the span of the violation, or the signature span when m
// satisfies the rule.
func (r Rule) Span(m *signature.Model) syntax.Span {
	if v := r.Check(m); v != nil {
		return v.Span
	}
	return m.Span
}

// MessageData is the data a message template is executed with.
type MessageData struct {
	Handler string
	Subject string
}

// Render executes the rule's message template.
func (r Rule) Render(m *signature.Model, v *Violation) (string, error) {
	var sb strings.Builder
	if err := r.Message.Execute(&sb, MessageData{Handler: m.Name, Subject: v.Subject}); err != nil {
		return "", errors.WrapTemplateError(r.ID, "execute", err)
	}
	return sb.String(), nil
}

// Set is an ordered collection of rules.
type Set struct {
	rules []Rule
}

// NewSet returns a set evaluating rules in the given order.
func NewSet(rules ...Rule) *Set {
	return &Set{rules: rules}
}

// Rules returns the rules in evaluation order.
func (s *Set) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

// Lookup returns the rule with the given identifier.
func (s *Set) Lookup(id string) (Rule, bool) {
	for _, r := range s.rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

func mustTemplate(id, text string) *template.Template {
	return template.Must(template.New(id).Parse(text))
}

// Default returns the handler contract checked against c:
//
//  1. handlers are async
//  2. every argument is an extractor or special argument
//  3. a body-consuming argument comes last
//  4. the return type converts into a response
func Default(c Classifier) *Set {
	return NewSet(
		Rule{
			ID:      AsyncHandler,
			Summary: "handlers must be declared async",
			Message: mustTemplate(AsyncHandler, "handlers must be async functions"),
			Check:   checkAsync,
		},
		Rule{
			ID:      UnknownExtractor,
			Summary: "every argument must be a recognized extractor",
			Message: mustTemplate(UnknownExtractor,
				"`{{.Subject}}` is not a recognized extractor; handler arguments must implement `FromRequest`"),
			Check: func(m *signature.Model) *Violation { return checkArguments(c, m) },
		},
		Rule{
			ID:      BodyExtractorOrder,
			Summary: "an extractor consuming the request body must be the last argument",
			Message: mustTemplate(BodyExtractorOrder,
				"`{{.Subject}}` consumes the request body and must be the last handler argument"),
			Check: func(m *signature.Model) *Violation { return checkBodyLast(c, m) },
		},
		Rule{
			ID:      UnknownResponse,
			Summary: "the return type must be a recognized response type",
			Message: mustTemplate(UnknownResponse,
				"`{{.Subject}}` is not a recognized response type; handler return types must implement `IntoResponse`"),
			Check: func(m *signature.Model) *Violation { return checkResponse(c, m) },
		},
	)
}

func checkAsync(m *signature.Model) *Violation {
	if m.IsAsync {
		return nil
	}
	return &Violation{Span: m.KeywordSpan, Subject: "fn"}
}

// checkArguments scans arguments in order up to the first misplaced body
// extractor. Arguments after it are never reached by the framework's own
// checks, so they cannot be the first mistake.
func checkArguments(c Classifier, m *signature.Model) *Violation {
	for _, p := range m.Params {
		if p.IsReceiver() {
			return &Violation{Span: p.Span, Subject: p.Type.Text}
		}
		arg := c.Argument(p.Type)
		if !arg.Known() {
			return &Violation{Span: p.Span, Subject: p.Type.Text}
		}
		if arg.ConsumesBody && !m.Last(p) {
			return nil
		}
	}
	return nil
}

func checkBodyLast(c Classifier, m *signature.Model) *Violation {
	for _, p := range m.Params {
		if m.Last(p) {
			break
		}
		if c.Argument(p.Type).ConsumesBody {
			return &Violation{Span: p.Span, Subject: p.Type.Text}
		}
	}
	return nil
}

func checkResponse(c Classifier, m *signature.Model) *Violation {
	if c.Response(m.Return) {
		return nil
	}
	return &Violation{Span: m.Return.Span, Subject: m.Return.Text}
}
