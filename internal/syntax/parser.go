package syntax

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/axon-debug/internal/errors"
)

var fileParser = participle.MustBuild[File](
	participle.Lexer(rustLexer),
	participle.Elide(commentTokens...),
	participle.UseLookahead(participle.MaxLookahead),
)

// Parse parses source text. The returned error, when not nil, is a
// *ParseError carrying the position of the failure.
func Parse(filename, source string) (*File, error) {
	file, err := fileParser.ParseString(filename, source)
	if err != nil {
		return nil, newParseError(filename, err)
	}
	// The grammar accepts any closer for any opener.
	if perr := checkDelimiters(filename, source); perr != nil {
		return nil, perr
	}
	file.Filename = filename
	file.Source = source
	return file, nil
}

// ParseError reports source text the front end could not read.
type ParseError struct {
	*errors.SyntaxError
	Span Span
}

func newParseError(filename string, err error) *ParseError {
	message := err.Error()
	span := Span{File: filename}
	if pe, ok := err.(participle.Error); ok {
		message = pe.Message()
		span = PointSpan(pe.Position())
		if span.File == "" {
			span.File = filename
		}
	}
	return syntaxError(span, message)
}

func syntaxError(span Span, message string) *ParseError {
	loc := errors.SourceLocation{File: span.File, Line: span.Start.Line, Column: span.Start.Column}
	return &ParseError{SyntaxError: errors.NewSyntaxError(message, loc), Span: span}
}

var closers = map[string]string{"(": ")", "[": "]", "{": "}"}

// checkDelimiters reports the first closing delimiter that does not match
// the innermost open one.
func checkDelimiters(filename, source string) *ParseError {
	lex, err := rustLexer.LexString(filename, source)
	if err != nil {
		return newParseError(filename, err)
	}
	var open []lexer.Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return newParseError(filename, err)
		}
		if tok.EOF() {
			return nil
		}
		if tok.Type != punctType {
			continue
		}
		switch tok.Value {
		case "(", "[", "{":
			open = append(open, tok)
		case ")", "]", "}":
			if len(open) == 0 {
				return nil
			}
			top := open[len(open)-1]
			if want := closers[top.Value]; tok.Value != want {
				pos := withFile(tok.Pos, filename)
				message := fmt.Sprintf("mismatched closing delimiter %q, expected %q to close %q at %d:%d",
					tok.Value, want, top.Value, top.Pos.Line, top.Pos.Column)
				return syntaxError(PointSpan(pos), message)
			}
			open = open[:len(open)-1]
		}
	}
}

// Decl is an item together with the outer attributes written directly
// before it. Item is nil when attributes trail off the end of a block.
type Decl struct {
	Attributes []*Attribute
	Item       *Item

	following []*Item
}

// HasAttribute reports whether an outer attribute whose final path segment
// is name is attached to the declaration.
func (d Decl) HasAttribute(name string) bool {
	return d.Attribute(name) != nil
}

// Attribute returns the first attached attribute named name.
func (d Decl) Attribute(name string) *Attribute {
	for _, attr := range d.Attributes {
		if attr.Name() == name {
			return attr
		}
	}
	return nil
}

// Name returns the final segment of the attribute path.
func (a *Attribute) Name() string {
	return a.Path.Last()
}

// Last returns the final segment of the path.
func (p *SimplePath) Last() string {
	if p == nil || len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

func (p *SimplePath) String() string {
	s := strings.Join(p.Segments, "::")
	if p.Global {
		return "::" + s
	}
	return s
}

// Decls groups one level of items into declarations.
func Decls(items []*Item) []Decl {
	var (
		decls   []Decl
		pending []*Attribute
	)
	for i, item := range items {
		if item.Attribute != nil {
			if !item.Attribute.Inner {
				pending = append(pending, item.Attribute)
			}
			continue
		}
		decls = append(decls, Decl{Attributes: pending, Item: item, following: items[i+1:]})
		pending = nil
	}
	if len(pending) > 0 {
		decls = append(decls, Decl{Attributes: pending})
	}
	return decls
}

// Walk visits every declaration in the file depth-first in source order,
// including those nested in blocks, groups, macro bodies and let values.
func (f *File) Walk(visit func(Decl)) {
	walkItems(f.Items, visit)
}

func walkItems(items []*Item, visit func(Decl)) {
	for _, decl := range Decls(items) {
		visit(decl)
		if decl.Item != nil {
			walkItem(decl.Item, visit)
		}
	}
}

func walkItem(item *Item, visit func(Decl)) {
	switch {
	case item.Group != nil:
		walkItems(item.Group.Items, visit)
	case item.Fn != nil && item.Fn.Body != nil:
		walkItems(item.Fn.Body.Items, visit)
	case item.Macro != nil:
		walkItems(item.Macro.Body.Items, visit)
	case item.Let != nil:
		walkExpr(item.Let.Value, visit)
	}
}

func walkExpr(expr *Expr, visit func(Decl)) {
	for _, part := range expr.Parts {
		switch {
		case part.Macro != nil:
			item := &Item{Pos: part.Macro.Pos, EndPos: part.Macro.EndPos, Macro: part.Macro}
			visit(Decl{Item: item})
			walkItem(item, visit)
		case part.Group != nil:
			walkItems(part.Group.Items, visit)
		}
	}
}

// Functions returns every function declared in the file in source order.
func (f *File) Functions() []*FnDecl {
	var fns []*FnDecl
	f.Walk(func(d Decl) {
		if d.Item != nil && d.Item.Fn != nil {
			fns = append(fns, d.Item.Fn)
		}
	})
	return fns
}

// Bindings returns the file's let bindings keyed by name. A later binding
// shadows an earlier one.
func (f *File) Bindings() map[string]*LetStmt {
	bindings := make(map[string]*LetStmt)
	f.Walk(func(d Decl) {
		if d.Item != nil && d.Item.Let != nil {
			bindings[d.Item.Let.Name.Value] = d.Item.Let
		}
	})
	return bindings
}

// fnKeyword reports whether a loose token can begin a function declaration.
func fnKeyword(tok string) bool {
	switch tok {
	case "pub", "const", "async", "unsafe", "extern", "fn":
		return true
	}
	return false
}

// MalformedFunction reports whether the declaration is a function the
// grammar could not read: a run of loose qualifier tokens reaching `fn`.
func (d Decl) MalformedFunction() bool {
	if d.Item == nil || d.Item.Token == "" {
		return false
	}
	run := append([]*Item{d.Item}, d.following...)
	for _, item := range run {
		if item.Token == "" || !fnKeyword(item.Token) {
			// extern "C" fn
			if item.Token != "" && strings.HasPrefix(item.Token, `"`) {
				continue
			}
			return false
		}
		if item.Token == "fn" {
			return true
		}
	}
	return false
}

// Describe names the kind of item for messages.
func (i *Item) Describe() string {
	switch {
	case i == nil:
		return "nothing"
	case i.Fn != nil:
		return "function"
	case i.Let != nil:
		return "let binding"
	case i.Macro != nil:
		return "macro invocation"
	case i.Group != nil:
		return "block"
	default:
		return "`" + i.Token + "`"
	}
}

// Span returns the item's source span.
func (i *Item) Span(filename string) Span {
	return SpanOf(withFile(i.Pos, filename), withFile(i.EndPos, filename))
}

func withFile(pos lexer.Position, filename string) lexer.Position {
	if pos.Filename == "" {
		pos.Filename = filename
	}
	return pos
}
