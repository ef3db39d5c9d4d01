package signature

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/axon-debug/internal/errors"
	"github.com/toyz/axon-debug/internal/syntax"
)

// BuildError reports a declaration that cannot be turned into a Model.
type BuildError struct {
	*errors.BuildError
	Span syntax.Span
}

func newBuildError(item string, span syntax.Span, message string) *BuildError {
	be := errors.NewBuildError(item, message)
	be.WithLocation(errors.SourceLocation{File: span.File, Line: span.Start.Line, Column: span.Start.Column})
	return &BuildError{BuildError: be, Span: span}
}

// Build turns a declaration carrying an analysis attribute into a Model.
// attr is the triggering attribute and anchors the error when the
// declaration is not a function.
func Build(filename string, decl syntax.Decl, attr *syntax.Attribute) (*Model, error) {
	attrSpan := syntax.SpanOf(posIn(attr.Pos, filename), posIn(attr.EndPos, filename))
	switch {
	case decl.Item != nil && decl.Item.Fn != nil:
		return FromFn(filename, decl.Item.Fn), nil
	case decl.MalformedFunction():
		return nil, newBuildError("function", decl.Item.Span(filename),
			"could not read the handler signature")
	default:
		return nil, newBuildError(decl.Item.Describe(), attrSpan,
			"the #["+attr.Path.String()+"] attribute can only be applied to functions")
	}
}

// FromFn builds the Model of a parsed function declaration.
func FromFn(filename string, fn *syntax.FnDecl) *Model {
	b := &builder{filename: filename}
	m := &Model{
		Name:        fn.Name.Value,
		IsAsync:     fn.Async,
		KeywordSpan: b.span(fn.Keyword.Pos, fn.Keyword.EndPos),
	}

	end := fn.Params.EndPos
	for i, p := range fn.Params.Params {
		m.Params = append(m.Params, b.param(i, p))
	}
	if fn.Return != nil {
		m.Return = b.typeRef(fn.Return)
		end = fn.Return.EndPos
	} else {
		m.Return = TypeRef{Kind: TupleType, Text: "()", Implicit: true}
	}
	if fn.Where != nil {
		end = fn.Where.EndPos
	}
	m.Span = b.span(fn.Pos, end)
	m.EndSpan = m.Span.Point()
	if m.Return.Implicit {
		m.Return.Span = m.EndSpan
	}
	return m
}

type builder struct {
	filename string
}

func posIn(pos lexer.Position, filename string) lexer.Position {
	if pos.Filename == "" {
		pos.Filename = filename
	}
	return pos
}

func (b *builder) span(start, end lexer.Position) syntax.Span {
	return syntax.SpanOf(posIn(start, b.filename), posIn(end, b.filename))
}

func (b *builder) param(i int, p *syntax.Param) ParamInfo {
	info := ParamInfo{Position: i, Span: b.span(p.Pos, p.EndPos)}
	if p.Self != nil {
		info.Pattern = "self"
		info.Type = TypeRef{
			Kind: SelfType,
			Text: selfText(p.Self),
			Span: b.span(p.Self.Pos, p.Self.EndPos),
		}
		return info
	}
	info.Pattern = patternText(p.Pattern)
	info.Type = b.typeRef(p.Type)
	return info
}

func selfText(s *syntax.SelfParam) string {
	var sb strings.Builder
	if s.Ref {
		sb.WriteString("&")
		if s.Lifetime != "" {
			sb.WriteString(s.Lifetime + " ")
		}
		if s.RefMut {
			sb.WriteString("mut ")
		}
	} else if s.Mut {
		sb.WriteString("mut ")
	}
	sb.WriteString("self")
	return sb.String()
}

// patternText prints a parameter pattern compactly, separating only
// adjacent words: `mut state`, `Json(body)`, `Path((a,b))`.
func patternText(parts []*syntax.PatternPart) string {
	var sb strings.Builder
	for _, p := range parts {
		text := p.Token
		if p.Group != nil {
			text = syntax.Render(syntax.Trees(p.Group.Tokens))
		}
		if sb.Len() > 0 && wordEnd(sb.String()) && wordStart(text) {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	return sb.String()
}

func wordStart(s string) bool {
	return s != "" && isWordByte(s[0])
}

func wordEnd(s string) bool {
	return s != "" && isWordByte(s[len(s)-1])
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (b *builder) typeRef(t *syntax.Type) TypeRef {
	ref := TypeRef{Span: b.span(t.Pos, t.EndPos)}
	switch {
	case t.Ref != nil:
		ref.Kind = ReferenceType
		ref.Lifetime = t.Ref.Lifetime
		ref.Mutable = t.Ref.Mut
		ref.Args = []TypeRef{b.typeRef(t.Ref.Elem)}
		ref.Text = "&" + prefix(ref.Lifetime) + mutText(ref.Mutable) + ref.Args[0].Text
	case t.Ptr != nil:
		ref.Kind = PointerType
		ref.Mutable = t.Ptr.Mut
		ref.Args = []TypeRef{b.typeRef(t.Ptr.Elem)}
		if ref.Mutable {
			ref.Text = "*mut " + ref.Args[0].Text
		} else {
			ref.Text = "*const " + ref.Args[0].Text
		}
	case t.Tuple != nil:
		if len(t.Tuple.Elems) == 1 && !t.Tuple.Trailing {
			// (T) is T.
			inner := b.typeRef(t.Tuple.Elems[0])
			inner.Span = ref.Span
			return inner
		}
		ref.Kind = TupleType
		ref.Args = b.typeRefs(t.Tuple.Elems)
		ref.Text = "(" + joinText(ref.Args, ", ")
		if len(ref.Args) == 1 {
			ref.Text += ","
		}
		ref.Text += ")"
	case t.Slice != nil:
		ref.Args = []TypeRef{b.typeRef(t.Slice.Elem)}
		if len(t.Slice.Len) > 0 {
			ref.Kind = ArrayType
			ref.Text = "[" + ref.Args[0].Text + "; " + strings.Join(t.Slice.Len, "") + "]"
		} else {
			ref.Kind = SliceType
			ref.Text = "[" + ref.Args[0].Text + "]"
		}
	case t.Never:
		ref.Kind = NeverType
		ref.Text = "!"
	case t.Impl != nil:
		ref.Kind = ImplTraitType
		ref.Bounds = b.bounds(t.Impl)
		ref.Text = "impl " + boundsText(t.Impl)
	case t.Dyn != nil:
		ref.Kind = DynTraitType
		ref.Bounds = b.bounds(t.Dyn)
		ref.Text = "dyn " + boundsText(t.Dyn)
	case t.FnPtr != nil:
		ref.Kind = FnPointerType
		ref.Text = fnPtrText(t.FnPtr)
	case t.Qualified != nil:
		ref.Kind = QualifiedPathType
		if t.Qualified.Trait != nil {
			ref.Path = segmentNames(t.Qualified.Trait.Segments)
		}
		ref.Text = qualifiedText(t.Qualified)
	case t.Path != nil:
		b.path(&ref, t.Path)
	}
	return ref
}

func (b *builder) typeRefs(ts []*syntax.Type) []TypeRef {
	out := make([]TypeRef, 0, len(ts))
	for _, t := range ts {
		out = append(out, b.typeRef(t))
	}
	return out
}

func (b *builder) path(ref *TypeRef, p *syntax.TypePath) {
	ref.Kind = PathType
	ref.Path = segmentNames(p.Segments)
	ref.Text = pathText(p)
	if len(ref.Path) == 1 && ref.Path[0] == "_" {
		ref.Kind = InferType
		return
	}
	last := p.Segments[len(p.Segments)-1]
	if last.Args == nil {
		return
	}
	for _, arg := range last.Args.Args {
		switch {
		case arg.Lifetime != "":
			ref.Lifetimes = append(ref.Lifetimes, arg.Lifetime)
		case arg.Type != nil:
			ref.Args = append(ref.Args, b.typeRef(arg.Type))
		}
	}
}

func (b *builder) bounds(list *syntax.BoundList) []TypeRef {
	var out []TypeRef
	for _, bound := range list.Bounds {
		if bound.Trait == nil {
			continue
		}
		ref := TypeRef{Span: b.span(bound.Pos, bound.EndPos)}
		b.path(&ref, bound.Trait.Path)
		out = append(out, ref)
	}
	return out
}

func prefix(lifetime string) string {
	if lifetime == "" {
		return ""
	}
	return lifetime + " "
}

func mutText(mut bool) string {
	if mut {
		return "mut "
	}
	return ""
}

func joinText(refs []TypeRef, sep string) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.Text
	}
	return strings.Join(parts, sep)
}

func segmentNames(segs []*syntax.PathSegment) []string {
	names := make([]string, len(segs))
	for i, s := range segs {
		names[i] = s.Name
	}
	return names
}
