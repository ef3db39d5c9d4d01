package router

import (
	"github.com/toyz/axon-debug/internal/diagnostic"
	"github.com/toyz/axon-debug/internal/rules"
	"github.com/toyz/axon-debug/internal/signature"
	"github.com/toyz/axon-debug/internal/syntax"
)

// RegisteredHere labels the note pointing at a registration site.
const RegisteredHere = "handler registered here"

// Aggregator checks the handlers registered in router expressions. It
// remembers which handlers it has reported so each is reported once, however
// many times and routers it is registered in.
type Aggregator struct {
	resolver Resolver
	rules    *rules.Set
	reported map[Key]bool
}

// NewAggregator returns an aggregator resolving handlers with resolver and
// checking them against set. reported is shared with other passes and may
// be nil.
func NewAggregator(resolver Resolver, set *rules.Set, reported map[Key]bool) *Aggregator {
	if reported == nil {
		reported = make(map[Key]bool)
	}
	return &Aggregator{resolver: resolver, rules: set, reported: reported}
}

// Reported reports whether the handler identified by k has a diagnostic.
func (a *Aggregator) Reported(k Key) bool {
	return a.reported[k]
}

// Result is the outcome of checking one router expression.
type Result struct {
	Registrations []Registration
	// Checked counts the registrations that resolved to a declaration.
	Checked     int
	Diagnostics []diagnostic.Diagnostic
}

// Aggregate checks every handler the router expression of call registers
// and returns their diagnostics in registration order. Handlers that do not
// resolve to a declaration are skipped.
func (a *Aggregator) Aggregate(file *syntax.File, call *syntax.MacroCall) (*Result, error) {
	res := &Result{Registrations: Registrations(file, call)}
	for _, reg := range res.Registrations {
		target, ok := a.resolver.Resolve(reg.Handler, file.Filename)
		if !ok {
			continue
		}
		res.Checked++
		key := target.Key()
		if a.reported[key] {
			continue
		}
		d, err := diagnostic.Select(signature.FromFn(target.File, target.Fn), a.rules)
		if err != nil {
			return nil, err
		}
		if d == nil {
			continue
		}
		a.reported[key] = true
		res.Diagnostics = append(res.Diagnostics, d.WithNote(RegisteredHere, reg.Span))
	}
	return res, nil
}
