package signature

import (
	"strings"

	"github.com/toyz/axon-debug/internal/syntax"
)

// TypeKind is the syntactic shape of a type.
type TypeKind int

const (
	PathType TypeKind = iota
	ReferenceType
	PointerType
	TupleType
	SliceType
	ArrayType
	NeverType
	ImplTraitType
	DynTraitType
	FnPointerType
	QualifiedPathType
	InferType
	SelfType
)

var kindNames = [...]string{
	PathType:          "path",
	ReferenceType:     "reference",
	PointerType:       "pointer",
	TupleType:         "tuple",
	SliceType:         "slice",
	ArrayType:         "array",
	NeverType:         "never",
	ImplTraitType:     "impl-trait",
	DynTraitType:      "dyn-trait",
	FnPointerType:     "fn-pointer",
	QualifiedPathType: "qualified-path",
	InferType:         "infer",
	SelfType:          "self",
}

func (k TypeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// TypeRef is a syntactic description of a type. It is never resolved:
// two TypeRefs with the same text may name different types.
type TypeRef struct {
	Kind TypeKind

	// Path holds the path segments of a PathType, or the trait path of a
	// QualifiedPathType.
	Path []string
	// Args holds the generic type arguments of the last path segment, the
	// element type of references, pointers, slices and arrays, and the
	// elements of tuples.
	Args []TypeRef
	// Lifetimes holds lifetime generic arguments of the last path segment.
	Lifetimes []string
	// Lifetime is the lifetime of a reference, including the quote.
	Lifetime string
	Mutable  bool
	// Bounds holds the trait bounds of impl and dyn types.
	Bounds []TypeRef

	Text     string
	Implicit bool
	Span     syntax.Span
}

// Name returns the last path segment, or "" for non-path types.
func (t TypeRef) Name() string {
	if len(t.Path) == 0 {
		return ""
	}
	return t.Path[len(t.Path)-1]
}

// QualifiedName joins the path segments with "::".
func (t TypeRef) QualifiedName() string {
	return strings.Join(t.Path, "::")
}

// IsUnit reports whether t is the unit type, written or implied.
func (t TypeRef) IsUnit() bool {
	return t.Kind == TupleType && len(t.Args) == 0
}

// Elem returns the single element of a reference, pointer, slice or array.
func (t TypeRef) Elem() (TypeRef, bool) {
	switch t.Kind {
	case ReferenceType, PointerType, SliceType, ArrayType:
		if len(t.Args) == 1 {
			return t.Args[0], true
		}
	}
	return TypeRef{}, false
}

// GenericText renders the generic arguments of the last path segment,
// lifetimes first, as they would appear between angle brackets.
func (t TypeRef) GenericText() string {
	parts := make([]string, 0, len(t.Lifetimes)+len(t.Args))
	parts = append(parts, t.Lifetimes...)
	for _, a := range t.Args {
		parts = append(parts, a.Text)
	}
	return strings.Join(parts, ", ")
}

func (t TypeRef) String() string {
	return t.Text
}

// ParamInfo is one parameter of a signature.
type ParamInfo struct {
	Pattern  string
	Type     TypeRef
	Position int
	Span     syntax.Span
}

// IsReceiver reports whether the parameter is a self receiver.
func (p ParamInfo) IsReceiver() bool {
	return p.Type.Kind == SelfType
}

// Model is the normalized shape of a function declaration.
type Model struct {
	Name    string
	IsAsync bool
	Params  []ParamInfo
	Return  TypeRef

	// Span covers the signature from its first qualifier to the end of the
	// return type or where clause.
	Span syntax.Span
	// KeywordSpan covers the `fn` keyword.
	KeywordSpan syntax.Span
	// EndSpan is the empty span at the end of the signature.
	EndSpan syntax.Span
}

// Last reports whether p is the final parameter of the model.
func (m *Model) Last(p ParamInfo) bool {
	return p.Position == len(m.Params)-1
}
