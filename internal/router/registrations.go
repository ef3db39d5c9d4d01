// Package router finds the handlers registered in a router expression and
// checks each of them like an annotated handler.
package router

import (
	"strings"

	"github.com/toyz/axon-debug/internal/syntax"
)

// methodRouters are the functions that register a handler for a method.
var methodRouters = map[string]bool{
	"get":     true,
	"post":    true,
	"put":     true,
	"delete":  true,
	"patch":   true,
	"head":    true,
	"options": true,
	"trace":   true,
	"any":     true,
}

// Registration is one handler registered in a router expression.
type Registration struct {
	// Method is the method router used, such as "get", or the filter of an
	// `on` registration such as "MethodFilter::GET".
	Method string
	// Route is the path literal of the enclosing .route call, if any.
	Route   string
	Handler []string
	// Span covers the handler expression.
	Span syntax.Span
}

// Name returns the handler path as written.
func (r Registration) Name() string {
	return strings.Join(r.Handler, "::")
}

// scanner collects registrations from token trees, following identifiers
// bound by let in the same file.
type scanner struct {
	file     *syntax.File
	lets     []*syntax.LetStmt
	visiting map[string]bool
	out      []Registration
}

func newScanner(file *syntax.File) *scanner {
	s := &scanner{file: file, visiting: make(map[string]bool)}
	file.Walk(func(d syntax.Decl) {
		if d.Item != nil && d.Item.Let != nil {
			s.lets = append(s.lets, d.Item.Let)
		}
	})
	return s
}

// Registrations returns the handlers registered by the router expression
// of call, in source order.
func Registrations(file *syntax.File, call *syntax.MacroCall) []Registration {
	s := newScanner(file)
	s.expr(call.Body.Trees(), call.Pos.Offset)
	return s.out
}

// binding returns the last let binding of name that starts before offset.
func (s *scanner) binding(name string, offset int) *syntax.LetStmt {
	var found *syntax.LetStmt
	for _, let := range s.lets {
		if let.Name.Value == name && let.Pos.Offset < offset {
			found = let
		}
	}
	return found
}

// expr scans a router expression. A lone identifier is replaced by the value
// it is bound to.
func (s *scanner) expr(trees []syntax.TokenTree, offset int) {
	if path, ok := syntax.PathOf(trees); ok && len(path) == 1 {
		s.follow(path[0], offset)
		return
	}
	s.scan(trees, "", offset)
}

func (s *scanner) follow(name string, offset int) {
	let := s.binding(name, offset)
	if let == nil || s.visiting[name] {
		return
	}
	s.visiting[name] = true
	defer delete(s.visiting, name)
	s.expr(let.Value.Trees(), let.Pos.Offset)
}

func (s *scanner) scan(trees []syntax.TokenTree, route string, offset int) {
	for i := 0; i < len(trees); i++ {
		t := trees[i]
		if t.Kind == syntax.GroupTree {
			s.scan(t.Children, route, offset)
			continue
		}
		if t.Kind != syntax.IdentTree || i+1 >= len(trees) || !trees[i+1].IsGroup("(") {
			continue
		}
		args := syntax.SplitArgs(trees[i+1].Children)
		switch {
		case t.Text == "route" && len(args) == 2:
			s.scan(args[1], literal(args[0]), offset)
		case t.Text == "nest" && len(args) == 2, t.Text == "merge" && len(args) == 1:
			s.expr(args[len(args)-1], offset)
		case methodRouters[t.Text] && len(args) == 1:
			s.register(t.Text, route, args[0])
		case t.Text == "on" && len(args) == 2:
			s.register(syntax.Render(args[0]), route, args[1])
		case strings.HasSuffix(t.Text, "_service"):
			// Services are checked by CheckService, not as handlers.
		default:
			s.scan(trees[i+1].Children, route, offset)
		}
		i++
	}
}

func (s *scanner) register(method, route string, handler []syntax.TokenTree) {
	path, ok := syntax.PathOf(handler)
	if !ok {
		return
	}
	first, last := handler[0].Span, handler[len(handler)-1].Span
	s.out = append(s.out, Registration{
		Method:  method,
		Route:   route,
		Handler: path,
		Span:    syntax.Span{File: first.File, Start: first.Start, End: last.End},
	})
}

// literal returns the unquoted text of a lone string literal.
func literal(trees []syntax.TokenTree) string {
	if len(trees) != 1 || trees[0].Kind != syntax.LiteralTree || !strings.HasPrefix(trees[0].Text, `"`) {
		return ""
	}
	return strings.Trim(trees[0].Text, `"`)
}
