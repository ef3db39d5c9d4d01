package classify

import (
	"github.com/toyz/axon-debug/internal/signature"
)

// Kind is the classification of a handler argument type.
type Kind int

const (
	Unknown Kind = iota
	Extractor
	SpecialArgument
)

func (k Kind) String() string {
	switch k {
	case Extractor:
		return "extractor"
	case SpecialArgument:
		return "special argument"
	default:
		return "unknown"
	}
}

// Argument is the classification of an argument type.
type Argument struct {
	Kind         Kind
	ConsumesBody bool
}

// Known reports whether the argument type was recognized.
func (a Argument) Known() bool {
	return a.Kind != Unknown
}

// maxDepth bounds recursion through wrapper types.
const maxDepth = 16

// Argument classifies a handler argument type.
func (t *Table) Argument(ref signature.TypeRef) Argument {
	return t.argument(ref, 0)
}

func (t *Table) argument(ref signature.TypeRef, depth int) Argument {
	if depth > maxDepth {
		return Argument{}
	}
	switch ref.Kind {
	case signature.PathType:
		for _, e := range t.candidates(ref) {
			kind := Unknown
			switch {
			case e.has(RoleExtractor):
				kind = Extractor
			case e.has(RoleSpecial):
				kind = SpecialArgument
			default:
				continue
			}
			if e.Wraps == WrapNone {
				return Argument{Kind: kind, ConsumesBody: e.Body}
			}
			inner, ok := t.wrapped(ref, e, depth, func(r signature.TypeRef, d int) (bool, bool) {
				a := t.argument(r, d)
				return a.Known(), a.ConsumesBody
			})
			if ok {
				return Argument{Kind: kind, ConsumesBody: e.Body || inner}
			}
		}
	case signature.TupleType:
		if len(ref.Args) == 0 {
			return Argument{}
		}
		out := Argument{Kind: Extractor}
		for _, elem := range ref.Args {
			a := t.argument(elem, depth+1)
			if !a.Known() {
				return Argument{}
			}
			out.ConsumesBody = out.ConsumesBody || a.ConsumesBody
		}
		return out
	}
	return Argument{}
}

// wrapped classifies the generic arguments of ref as entry e directs. check
// returns whether an argument is recognized and whether it consumes the body.
func (t *Table) wrapped(ref signature.TypeRef, e Entry, depth int, check func(signature.TypeRef, int) (bool, bool)) (body, ok bool) {
	if len(ref.Args) == 0 {
		return false, false
	}
	args := ref.Args
	if e.Wraps == WrapFirst {
		args = args[:1]
	}
	for _, a := range args {
		known, consumes := check(a, depth+1)
		if !known {
			return false, false
		}
		body = body || consumes
	}
	return body, true
}

// Response reports whether ref is a recognized response type. The implicit
// unit type of a function without a return type is a response.
func (t *Table) Response(ref signature.TypeRef) bool {
	return t.response(ref, 0)
}

func (t *Table) response(ref signature.TypeRef, depth int) bool {
	if depth > maxDepth {
		return false
	}
	switch ref.Kind {
	case signature.TupleType:
		if len(ref.Args) == 0 {
			return true
		}
		last := len(ref.Args) - 1
		for _, part := range ref.Args[:last] {
			if !t.parts(part) {
				return false
			}
		}
		return t.response(ref.Args[last], depth+1)
	case signature.PathType:
		for _, e := range t.candidates(ref) {
			if !e.has(RoleResponse) {
				continue
			}
			if e.Wraps == WrapNone {
				return true
			}
			if _, ok := t.wrapped(ref, e, depth, func(r signature.TypeRef, d int) (bool, bool) {
				return t.response(r, d), false
			}); ok {
				return true
			}
		}
	case signature.ReferenceType:
		elem, _ := ref.Elem()
		for _, r := range t.refs {
			if r.Target == elem.Text && r.Lifetime == ref.Lifetime && hasRole(r.Roles, RoleResponse) && !ref.Mutable {
				return true
			}
		}
	case signature.ImplTraitType:
		for _, bound := range ref.Bounds {
			for _, im := range t.impls {
				if bound.Name() == im.Trait && hasRole(im.Roles, RoleResponse) {
					return true
				}
			}
		}
	}
	return false
}

// parts reports whether ref may precede the body of a response tuple.
func (t *Table) parts(ref signature.TypeRef) bool {
	if ref.Kind != signature.PathType {
		return false
	}
	for _, e := range t.candidates(ref) {
		if e.has(RoleParts) {
			return true
		}
	}
	return false
}

// candidates returns the entries whose name, arity and generic text match.
func (t *Table) candidates(ref signature.TypeRef) []Entry {
	var out []Entry
	for _, e := range t.types[ref.Name()] {
		if e.Args != nil && len(ref.Args) != *e.Args {
			continue
		}
		if e.Generic != "" && ref.GenericText() != e.Generic {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (e Entry) has(role Role) bool {
	return hasRole(e.Roles, role)
}

func hasRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
