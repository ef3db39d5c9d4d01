package syntax

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// File is a parsed source file. Only attributes, functions, let bindings and
// macro calls are given structure; everything else is kept as balanced token
// groups and loose tokens.
type File struct {
	Filename string
	Source   string

	Items []*Item `@@*`
}

// Item is one element of an item sequence.
type Item struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Attribute *Attribute `  @@`
	Fn        *FnDecl    `| @@`
	Let       *LetStmt   `| @@`
	Macro     *MacroCall `| @@`
	Group     *Group     `| @@`
	Token     string     `| @~( "(" | ")" | "[" | "]" | "{" | "}" )`
}

// Group is a bracketed token group.
type Group struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Tokens []lexer.Token

	Open  string  `@( "(" | "[" | "{" )`
	Items []*Item `@@*`
	Close string  `@( ")" | "]" | "}" )`
}

// Block is a brace-delimited function body.
type Block struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Items []*Item `"{" @@* "}"`
}

// Attribute is an outer (#[...]) or inner (#![...]) attribute.
type Attribute struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Inner bool        `"#" @"!"? "["`
	Path  *SimplePath `@@`
	Args  []*AttrArg  `@@* "]"`
}

// AttrArg is a token inside an attribute after its path.
type AttrArg struct {
	Group *Group `  @@`
	Token string `| @~( "]" | "(" | ")" | "[" | "{" | "}" )`
}

// SimplePath is a path without generic arguments, as used by attributes and
// macro invocations.
type SimplePath struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Global   bool     `@"::"?`
	Segments []string `@Ident ( "::" @Ident )*`
}

// MacroCall is a bang macro invocation such as debug_router!(...).
type MacroCall struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Path *SimplePath `@@ "!"`
	Body *Group      `@@`
}

// LetStmt is a simple `let name = expr;` binding.
type LetStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Mut   bool   `"let" @"mut"?`
	Name  *Ident `@@`
	Type  *Type  `( ":" @@ )?`
	Value *Expr  `"=" @@ ";"`
}

// Expr is an unstructured expression: a run of tokens up to a semicolon.
type Expr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Tokens []lexer.Token

	Parts []*ExprPart `@@+`
}

// ExprPart is a single element of an Expr.
type ExprPart struct {
	Macro *MacroCall `  @@`
	Group *Group     `| @@`
	Token string     `| @~( ";" | "(" | ")" | "[" | "]" | "{" | "}" )`
}

// Ident is an identifier with its position.
type Ident struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Value string `@Ident`
}

// Keyword is the `fn` keyword of a function declaration.
type Keyword struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Value string `@"fn"`
}

// FnDecl is a function declaration.
type FnDecl struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Visibility *Visibility `@@?`
	Const      bool        `@"const"?`
	Async      bool        `@"async"?`
	Unsafe     bool        `@"unsafe"?`
	Extern     *Extern     `@@?`
	Keyword    *Keyword    `@@`
	Name       *Ident      `@@`
	Generics   *Generics   `@@?`
	Params     *ParamList  `@@`
	Return     *Type       `( "->" @@ )?`
	Where      *Where      `@@?`
	Body       *Block      `( @@ | ";" )`
}

// Visibility is `pub` with an optional restriction.
type Visibility struct {
	Pub   bool     `@"pub"`
	Scope []string `( "(" @( ~")" )+ ")" )?`
}

// Extern is an `extern "ABI"` qualifier.
type Extern struct {
	ABI string `"extern" @String?`
}

// Generics is a generic parameter list.
type Generics struct {
	Params []*GenericParam `"<" ( @@ ( "," @@ )* ","? )? ">"`
}

// GenericParam is one lifetime, const or type parameter.
type GenericParam struct {
	Lifetime *LifetimeParam `  @@`
	Const    *ConstParam    `| @@`
	Type     *TypeParam     `| @@`
}

type LifetimeParam struct {
	Name   string   `@Lifetime`
	Bounds []string `( ":" @Lifetime ( "+" @Lifetime )* )?`
}

type ConstParam struct {
	Name    string        `"const" @Ident`
	Type    *Type         `":" @@`
	Default *ConstDefault `( "=" @@ )?`
}

type ConstDefault struct {
	Block *Group `  @@`
	Value string `| @( "-"? ( Number | Ident | Char | String ) )`
}

type TypeParam struct {
	Name    string     `@Ident`
	Bounds  *BoundList `( ":" @@? )?`
	Default *Type      `( "=" @@ )?`
}

// Where is a where clause, kept as raw tokens.
type Where struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Clause []string `"where" @( ~( "{" | ";" ) )*`
}

// ParamList is a parenthesized parameter list.
type ParamList struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Params []*Param `"(" ( @@ ( "," @@ )* ","? )? ")"`
}

// Param is one function parameter: a receiver or `pattern: Type`.
type Param struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Attributes []*Attribute   `@@*`
	Self       *SelfParam     `( @@`
	Pattern    []*PatternPart `| @@+ ":"`
	Type       *Type          `  @@ )`
}

// PatternPart is an element of a parameter pattern.
type PatternPart struct {
	Group *Group `  @@`
	Token string `| @~( ":" | "," | "(" | ")" | "[" | "]" | "{" | "}" )`
}

// SelfParam is a method receiver.
type SelfParam struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Ref      bool   `(   @"&"`
	Lifetime string `    @Lifetime?`
	RefMut   bool   `    @"mut"? "self"`
	Mut      bool   `  | @"mut"? "self"`
	Type     *Type  `    ( ":" @@ )? )`
}

// Type is the syntax of a type.
type Type struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Ref       *RefType       `  @@`
	Ptr       *PtrType       `| @@`
	Tuple     *TupleType     `| @@`
	Slice     *SliceType     `| @@`
	Never     bool           `| @"!"`
	Impl      *BoundList     `| "impl" @@`
	Dyn       *BoundList     `| "dyn" @@`
	FnPtr     *FnPtrType     `| @@`
	Qualified *QualifiedPath `| @@`
	Path      *TypePath      `| @@`
}

type RefType struct {
	Lifetime string `"&" @Lifetime?`
	Mut      bool   `@"mut"?`
	Elem     *Type  `@@`
}

type PtrType struct {
	Mut  bool  `"*" ( @"mut" | "const" )`
	Elem *Type `@@`
}

// TupleType covers the unit type, tuples and parenthesized types.
type TupleType struct {
	Elems    []*Type `"(" ( @@ ( "," @@ )*`
	Trailing bool    `@","? )? ")"`
}

// SliceType covers [T] and [T; N].
type SliceType struct {
	Elem *Type    `"[" @@`
	Len  []string `( ";" @( ~"]" )+ )? "]"`
}

type FnPtrType struct {
	ForLifetimes []string  `( "for" "<" @Lifetime ( "," @Lifetime )* ","? ">" )?`
	Unsafe       bool      `@"unsafe"?`
	Extern       *Extern   `@@?`
	Params       []*FnArg  `"fn" "(" ( @@ ( "," @@ )* ","? )? ")"`
	Return       *Type     `( "->" @@ )?`
}

type FnArg struct {
	Name string `( @Ident ":" )?`
	Type *Type  `@@`
}

// QualifiedPath is `<T as Trait>::Assoc`.
type QualifiedPath struct {
	Self     *Type          `"<" @@`
	Trait    *TypePath      `( "as" @@ )? ">"`
	Segments []*PathSegment `( "::" @@ )+`
}

// TypePath is a possibly generic path such as axum::extract::Json<T>.
type TypePath struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Global   bool           `@"::"?`
	Segments []*PathSegment `@@ ( "::" @@ )*`
}

type PathSegment struct {
	Name  string       `@Ident`
	Args  *GenericArgs `( "::"? @@`
	Sugar *FnSugar     `| @@ )?`
}

type GenericArgs struct {
	Args []*GenericArg `"<" ( @@ ( "," @@ )* ","? )? ">"`
}

type GenericArg struct {
	Lifetime string        `  @Lifetime`
	Binding  *AssocBinding `| @@`
	Type     *Type         `| @@`
	Block    *Group        `| @@`
	Literal  string        `| @( "-"? ( Number | Char | String ) )`
}

// AssocBinding is an associated type binding (Output = T) or bound (Item: Trait).
type AssocBinding struct {
	Name   string     `@Ident`
	Type   *Type      `( "=" @@`
	Bounds *BoundList `| ":" @@ )`
}

// FnSugar is the parenthesized form of Fn-family trait paths: Fn(A) -> B.
type FnSugar struct {
	Inputs []*Type `"(" ( @@ ( "," @@ )* ","? )? ")"`
	Output *Type   `( "->" @@ )?`
}

type BoundList struct {
	Bounds []*Bound `@@ ( "+" @@ )*`
}

type Bound struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Lifetime string    `  @Lifetime`
	Trait    *TraitRef `| @@`
}

type TraitRef struct {
	Maybe        bool      `@"?"?`
	ForLifetimes []string  `( "for" "<" @Lifetime ( "," @Lifetime )* ","? ">" )?`
	Path         *TypePath `@@`
}
