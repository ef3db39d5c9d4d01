package diagnostic

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/axon-debug/internal/classify"
	"github.com/toyz/axon-debug/internal/rules"
	"github.com/toyz/axon-debug/internal/signature"
	"github.com/toyz/axon-debug/internal/syntax"
)

func model(t *testing.T, src string) *signature.Model {
	t.Helper()
	file, err := syntax.Parse("src/main.rs", src)
	require.NoError(t, err)
	fns := file.Functions()
	require.Len(t, fns, 1)
	return signature.FromFn("src/main.rs", fns[0])
}

func TestSelect(t *testing.T) {
	set := rules.Default(classify.Default())

	tests := []struct {
		name    string
		src     string
		rule    string
		message string
		line    int
		column  int
	}{
		{
			name: "bool response",
			src:  "async fn handler() -> bool { false }",
		},
		{
			name: "string argument",
			src:  "async fn handler(a: String) -> &'static str { \"\" }",
		},
		{
			name:    "not async",
			src:     "\n\nfn handler() -> &'static str { \"Hello, world\" }",
			rule:    rules.AsyncHandler,
			message: "handlers must be async functions",
			line:    3,
			column:  1,
		},
		{
			name:    "not async with other defects",
			src:     "fn handler(x: Mystery, body: String, id: Path<u32>) -> Mystery {}",
			rule:    rules.AsyncHandler,
			message: "handlers must be async functions",
			line:    1,
			column:  1,
		},
		{
			name:    "body order",
			src:     "async fn handler(body: Bytes, x: Mystery) {}",
			rule:    rules.BodyExtractorOrder,
			message: "`Bytes` consumes the request body and must be the last handler argument",
			line:    1,
			column:  18,
		},
		{
			name:    "custom response",
			src:     "async fn handler() -> MyThing {}",
			rule:    rules.UnknownResponse,
			message: "`MyThing` is not a recognized response type; handler return types must implement `IntoResponse`",
			line:    1,
			column:  23,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := model(t, tt.src)
			d, err := Select(m, set)
			require.NoError(t, err)
			if tt.rule == "" {
				assert.Nil(t, d)
				return
			}
			require.NotNil(t, d)
			assert.Equal(t, tt.rule, d.RuleID)
			assert.Equal(t, tt.message, d.Message)
			assert.Equal(t, "handler", d.Handler)
			assert.Equal(t, "src/main.rs", d.Span.File)
			assert.Equal(t, tt.line, d.Span.Start.Line)
			assert.Equal(t, tt.column, d.Span.Start.Column)
			assert.Empty(t, d.Notes)
		})
	}
}

func TestSelect_Deterministic(t *testing.T) {
	set := rules.Default(classify.Default())
	m := model(t, "async fn h(Json(a): Json<A>, Form(b): Form<B>) -> Nope {}")

	first, err := Select(m, set)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Select(m, set)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestWithNote(t *testing.T) {
	d := Diagnostic{RuleID: rules.AsyncHandler, Message: "m"}
	span := syntax.Span{File: "src/routes.rs", Start: syntax.Position{Line: 4, Column: 9}}

	noted := d.WithNote("handler registered here", span)
	require.Len(t, noted.Notes, 1)
	assert.Equal(t, "handler registered here", noted.Notes[0].Message)
	assert.Equal(t, span, noted.Notes[0].Span)
	assert.Empty(t, d.Notes, "the original is not modified")

	twice := noted.WithNote("again", span)
	assert.Len(t, twice.Notes, 2)
	assert.Len(t, noted.Notes, 1)
}

func TestFromError(t *testing.T) {
	_, perr := syntax.Parse("src/lib.rs", "fn broken() {")
	require.Error(t, perr)

	d, ok := FromError(perr)
	require.True(t, ok)
	assert.Equal(t, MalformedInput, d.RuleID)
	assert.Contains(t, d.Message, "could not parse file: ")
	assert.Equal(t, "src/lib.rs", d.Span.File)

	file, err := syntax.Parse("src/lib.rs", "#[debug_handler]\nconst X: u8 = 1;")
	require.NoError(t, err)
	decl := syntax.Decls(file.Items)[0]
	_, berr := signature.Build("src/lib.rs", decl, decl.Attribute("debug_handler"))
	require.Error(t, berr)

	d, ok = FromError(fmt.Errorf("checking: %w", berr))
	require.True(t, ok)
	assert.Equal(t, MalformedInput, d.RuleID)
	assert.Equal(t, "the #[debug_handler] attribute can only be applied to functions", d.Message)
	assert.Equal(t, 1, d.Span.Start.Line)
	assert.Empty(t, d.Handler)

	_, ok = FromError(fmt.Errorf("disk on fire"))
	assert.False(t, ok)
}
