package signature

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/axon-debug/internal/errors"
	"github.com/toyz/axon-debug/internal/syntax"
)

func parseDecl(t *testing.T, src string) syntax.Decl {
	t.Helper()
	file, err := syntax.Parse("main.rs", src)
	require.NoError(t, err)
	decls := syntax.Decls(file.Items)
	require.NotEmpty(t, decls)
	return decls[0]
}

func buildModel(t *testing.T, src string) *Model {
	t.Helper()
	decl := parseDecl(t, src)
	require.NotNil(t, decl.Item)
	require.NotNil(t, decl.Item.Fn)
	return FromFn("main.rs", decl.Item.Fn)
}

func paramType(t *testing.T, typ string) TypeRef {
	t.Helper()
	m := buildModel(t, "async fn h(x: "+typ+") {}")
	require.Len(t, m.Params, 1)
	return m.Params[0].Type
}

func TestFromFn_Handler(t *testing.T) {
	src := "pub async fn create(Path(id): Path<u32>, Json(body): Json<Value>) -> impl IntoResponse {\n}"
	m := buildModel(t, src)

	assert.Equal(t, "create", m.Name)
	assert.True(t, m.IsAsync)
	require.Len(t, m.Params, 2)

	id := m.Params[0]
	assert.Equal(t, 0, id.Position)
	assert.Equal(t, "Path(id)", id.Pattern)
	assert.Equal(t, PathType, id.Type.Kind)
	assert.Equal(t, "Path", id.Type.Name())
	assert.Equal(t, "Path<u32>", id.Type.Text)
	require.Len(t, id.Type.Args, 1)
	assert.Equal(t, "u32", id.Type.Args[0].Text)
	assert.Equal(t, "Path(id): Path<u32>", id.Span.Text(src))
	assert.False(t, id.IsReceiver())

	body := m.Params[1]
	assert.Equal(t, 1, body.Position)
	assert.True(t, m.Last(body))
	assert.False(t, m.Last(id))
	assert.Equal(t, "Json(body): Json<Value>", body.Span.Text(src))
	assert.Equal(t, "Json<Value>", body.Type.Span.Text(src))

	assert.Equal(t, ImplTraitType, m.Return.Kind)
	assert.Equal(t, "impl IntoResponse", m.Return.Text)
	require.Len(t, m.Return.Bounds, 1)
	assert.Equal(t, "IntoResponse", m.Return.Bounds[0].Name())
	assert.Equal(t, "impl IntoResponse", m.Return.Span.Text(src))

	assert.Equal(t, "fn", m.KeywordSpan.Text(src))
	assert.Equal(t, "main.rs", m.KeywordSpan.File)
	assert.Equal(t, "pub async fn create(Path(id): Path<u32>, Json(body): Json<Value>) -> impl IntoResponse", m.Span.Text(src))
	assert.True(t, m.EndSpan.Empty())
	assert.Equal(t, m.Span.End, m.EndSpan.Start)
}

func TestFromFn_ImplicitReturn(t *testing.T) {
	src := "async fn h(s: String) {}"
	m := buildModel(t, src)

	assert.True(t, m.Return.Implicit)
	assert.True(t, m.Return.IsUnit())
	assert.Equal(t, "()", m.Return.Text)
	assert.Equal(t, m.EndSpan, m.Return.Span)
	assert.Equal(t, "async fn h(s: String)", m.Span.Text(src))
}

func TestFromFn_WhereClause(t *testing.T) {
	src := "async fn h<T>(x: T) -> T where T: Send {}"
	m := buildModel(t, src)

	assert.Equal(t, "async fn h<T>(x: T) -> T where T: Send", m.Span.Text(src))
	assert.False(t, m.Return.Implicit)
}

func TestFromFn_Receiver(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"fn m(self) {}", "self"},
		{"fn m(mut self) {}", "mut self"},
		{"fn m(&self) {}", "&self"},
		{"fn m(&'a mut self) {}", "&'a mut self"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			m := buildModel(t, tt.src)
			require.Len(t, m.Params, 1)
			p := m.Params[0]
			assert.True(t, p.IsReceiver())
			assert.Equal(t, SelfType, p.Type.Kind)
			assert.Equal(t, "self", p.Pattern)
			assert.Equal(t, tt.want, p.Type.Text)
		})
	}
}

func TestFromFn_Patterns(t *testing.T) {
	m := buildModel(t, "async fn h(mut s: String, _: u8, Path((a, b)): Path<(u32, u32)>, State(AppState { db, .. }): State<AppState>) {}")
	require.Len(t, m.Params, 4)

	var got []string
	for _, p := range m.Params {
		got = append(got, p.Pattern)
	}
	assert.Equal(t, []string{"mut s", "_", "Path((a,b))", "State(AppState{db,..})"}, got)
}

func TestTypeRef_CanonicalText(t *testing.T) {
	tests := []struct {
		typ  string
		kind TypeKind
		text string
	}{
		{"String", PathType, "String"},
		{"&'a  mut   str", ReferenceType, "&'a mut str"},
		{"&str", ReferenceType, "&str"},
		{"*const T", PointerType, "*const T"},
		{"*mut T", PointerType, "*mut T"},
		{"()", TupleType, "()"},
		{"( u8 , )", TupleType, "(u8,)"},
		{"(u8, String)", TupleType, "(u8, String)"},
		{"(u8)", PathType, "u8"},
		{"[u8]", SliceType, "[u8]"},
		{"[u8; 4]", ArrayType, "[u8; 4]"},
		{"!", NeverType, "!"},
		{"_", InferType, "_"},
		{"HashMap<String,Vec<u8>>", PathType, "HashMap<String, Vec<u8>>"},
		{"Vec::<u8>", PathType, "Vec<u8>"},
		{"::std::string::String", PathType, "::std::string::String"},
		{"Cow<'static, str>", PathType, "Cow<'static, str>"},
		{"Array<u8, 4>", PathType, "Array<u8, 4>"},
		{"Box<dyn Iterator<Item = u8> + Send>", PathType, "Box<dyn Iterator<Item = u8> + Send>"},
		{"Box<dyn Fn(u8) -> u8 + Send + 'static>", PathType, "Box<dyn Fn(u8) -> u8 + Send + 'static>"},
		{"impl Into<String> + ?Sized", ImplTraitType, "impl Into<String> + ?Sized"},
		{"dyn Trait", DynTraitType, "dyn Trait"},
		{"for<'a> fn(&'a str) -> bool", FnPointerType, "for<'a> fn(&'a str) -> bool"},
		{"unsafe extern \"C\" fn(x: u8)", FnPointerType, "unsafe extern \"C\" fn(x: u8)"},
		{"<T as Trait>::Output", QualifiedPathType, "<T as Trait>::Output"},
		{"<T>::Output", QualifiedPathType, "<T>::Output"},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			ref := paramType(t, tt.typ)
			assert.Equal(t, tt.kind, ref.Kind, ref.Kind.String())
			assert.Equal(t, tt.text, ref.Text)
			assert.Equal(t, tt.text, ref.String())
		})
	}
}

func TestTypeRef_Structure(t *testing.T) {
	ref := paramType(t, "axum::extract::Json<T>")
	assert.Equal(t, []string{"axum", "extract", "Json"}, ref.Path)
	assert.Equal(t, "axum::extract::Json", ref.QualifiedName())
	assert.Equal(t, "Json", ref.Name())
	assert.Equal(t, "T", ref.GenericText())

	cow := paramType(t, "Cow<'static, str>")
	assert.Equal(t, []string{"'static"}, cow.Lifetimes)
	require.Len(t, cow.Args, 1)
	assert.Equal(t, "'static, str", cow.GenericText())

	r := paramType(t, "&'static mut [u8]")
	assert.Equal(t, "'static", r.Lifetime)
	assert.True(t, r.Mutable)
	elem, ok := r.Elem()
	require.True(t, ok)
	assert.Equal(t, SliceType, elem.Kind)

	_, ok = paramType(t, "String").Elem()
	assert.False(t, ok)

	tuple := paramType(t, "(u8, String)")
	assert.Len(t, tuple.Args, 2)
	assert.False(t, tuple.IsUnit())
	assert.Equal(t, "", tuple.Name())

	assert.Equal(t, "unknown", TypeKind(99).String())
}

func TestBuild_Function(t *testing.T) {
	decl := parseDecl(t, "#[debug_handler]\nasync fn ok() -> bool { true }")
	m, err := Build("main.rs", decl, decl.Attribute("debug_handler"))
	require.NoError(t, err)
	assert.Equal(t, "ok", m.Name)
}

func TestBuild_NotAFunction(t *testing.T) {
	src := "#[debug_handler]\nstruct Foo { x: u32 }"
	decl := parseDecl(t, src)

	m, err := Build("main.rs", decl, decl.Attribute("debug_handler"))
	require.Error(t, err)
	assert.Nil(t, m)

	var be *BuildError
	require.True(t, stderrors.As(err, &be))
	assert.Equal(t, "#[debug_handler]", be.Span.Text(src))
	assert.Equal(t, "the #[debug_handler] attribute can only be applied to functions", be.Message)
	assert.Equal(t, "`struct`", be.Item)
	assert.Equal(t, errors.BuildErrorCode, be.ErrorCode())
	assert.Equal(t, "main.rs:1:1: the #[debug_handler] attribute can only be applied to functions", be.Error())
}

func TestBuild_TrailingAttribute(t *testing.T) {
	src := "fn main() {}\n#[debug_handler]"
	file, err := syntax.Parse("main.rs", src)
	require.NoError(t, err)
	decls := syntax.Decls(file.Items)
	require.Len(t, decls, 2)

	_, err = Build("main.rs", decls[1], decls[1].Attribute("debug_handler"))
	var be *BuildError
	require.True(t, stderrors.As(err, &be))
	assert.Equal(t, "nothing", be.Item)
	assert.Equal(t, 2, be.Span.Start.Line)
}

func TestBuild_MalformedFunction(t *testing.T) {
	src := "#[debug_handler]\nasync fn broken(x: ) {}"
	decl := parseDecl(t, src)

	_, err := Build("main.rs", decl, decl.Attribute("debug_handler"))
	var be *BuildError
	require.True(t, stderrors.As(err, &be))
	assert.Equal(t, "could not read the handler signature", be.Message)
	assert.Equal(t, "async", be.Span.Text(src))
	assert.Equal(t, 2, be.Location().Line)
}
