package signature

import (
	"strings"

	"github.com/toyz/axon-debug/internal/syntax"
)

// The functions below print type syntax in a canonical single-line form
// used for messages and table matching.

func typeText(t *syntax.Type) string {
	if t == nil {
		return ""
	}
	return (&builder{}).typeRef(t).Text
}

func pathText(p *syntax.TypePath) string {
	var sb strings.Builder
	if p.Global {
		sb.WriteString("::")
	}
	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteString("::")
		}
		sb.WriteString(seg.Name)
		switch {
		case seg.Args != nil:
			sb.WriteString("<")
			sb.WriteString(genericArgsText(seg.Args))
			sb.WriteString(">")
		case seg.Sugar != nil:
			sb.WriteString("(")
			sb.WriteString(typesText(seg.Sugar.Inputs))
			sb.WriteString(")")
			if seg.Sugar.Output != nil {
				sb.WriteString(" -> " + typeText(seg.Sugar.Output))
			}
		}
	}
	return sb.String()
}

func genericArgsText(args *syntax.GenericArgs) string {
	parts := make([]string, 0, len(args.Args))
	for _, a := range args.Args {
		switch {
		case a.Lifetime != "":
			parts = append(parts, a.Lifetime)
		case a.Binding != nil && a.Binding.Type != nil:
			parts = append(parts, a.Binding.Name+" = "+typeText(a.Binding.Type))
		case a.Binding != nil:
			parts = append(parts, a.Binding.Name+": "+boundsText(a.Binding.Bounds))
		case a.Type != nil:
			parts = append(parts, typeText(a.Type))
		case a.Block != nil:
			parts = append(parts, "{"+syntax.Render(a.Block.Trees())+"}")
		default:
			parts = append(parts, a.Literal)
		}
	}
	return strings.Join(parts, ", ")
}

func typesText(ts []*syntax.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = typeText(t)
	}
	return strings.Join(parts, ", ")
}

func boundsText(list *syntax.BoundList) string {
	if list == nil {
		return ""
	}
	parts := make([]string, 0, len(list.Bounds))
	for _, b := range list.Bounds {
		if b.Trait == nil {
			parts = append(parts, b.Lifetime)
			continue
		}
		var s string
		if b.Trait.Maybe {
			s = "?"
		}
		if len(b.Trait.ForLifetimes) > 0 {
			s += "for<" + strings.Join(b.Trait.ForLifetimes, ", ") + "> "
		}
		parts = append(parts, s+pathText(b.Trait.Path))
	}
	return strings.Join(parts, " + ")
}

func fnPtrText(f *syntax.FnPtrType) string {
	var sb strings.Builder
	if len(f.ForLifetimes) > 0 {
		sb.WriteString("for<" + strings.Join(f.ForLifetimes, ", ") + "> ")
	}
	if f.Unsafe {
		sb.WriteString("unsafe ")
	}
	if f.Extern != nil {
		sb.WriteString("extern ")
		if f.Extern.ABI != "" {
			sb.WriteString(f.Extern.ABI + " ")
		}
	}
	sb.WriteString("fn(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Name != "" {
			sb.WriteString(p.Name + ": ")
		}
		sb.WriteString(typeText(p.Type))
	}
	sb.WriteString(")")
	if f.Return != nil {
		sb.WriteString(" -> " + typeText(f.Return))
	}
	return sb.String()
}

func qualifiedText(q *syntax.QualifiedPath) string {
	var sb strings.Builder
	sb.WriteString("<" + typeText(q.Self))
	if q.Trait != nil {
		sb.WriteString(" as " + pathText(q.Trait))
	}
	sb.WriteString(">")
	for _, seg := range q.Segments {
		sb.WriteString("::" + pathText(&syntax.TypePath{Segments: []*syntax.PathSegment{seg}}))
	}
	return sb.String()
}
