package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/axon-debug/internal/classify"
	"github.com/toyz/axon-debug/internal/rules"
	"github.com/toyz/axon-debug/internal/syntax"
)

func parse(t *testing.T, name, src string) *syntax.File {
	t.Helper()
	file, err := syntax.Parse(name, src)
	require.NoError(t, err)
	return file
}

// routerCalls returns the debug_router! invocations of file in order.
func routerCalls(file *syntax.File) []*syntax.MacroCall {
	var calls []*syntax.MacroCall
	file.Walk(func(d syntax.Decl) {
		if d.Item != nil && d.Item.Macro != nil && d.Item.Macro.Path.Last() == "debug_router" {
			calls = append(calls, d.Item.Macro)
		}
	})
	return calls
}

func names(regs []Registration) []string {
	out := make([]string, len(regs))
	for i, r := range regs {
		out[i] = r.Method + " " + r.Route + " " + r.Name()
	}
	return out
}

func TestRegistrations(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "routes and chained methods",
			src: `fn app() {
    debug_router!(Router::new()
        .route("/", get(root))
        .route("/users", get(users::list).post(users::create).delete(users::remove)));
}`,
			want: []string{"get / root", "get /users users::list", "post /users users::create", "delete /users users::remove"},
		},
		{
			name: "let binding",
			src: `fn app() {
    let users = Router::new().route("/", get(list));
    let app = Router::new().route("/health", get(health)).merge(users);
    debug_router!(app);
}`,
			want: []string{"get /health health", "get / list"},
		},
		{
			name: "nest",
			src: `fn app() {
    let api = Router::new().route("/items", put(items::update));
    debug_router!(Router::new().nest("/api", api).nest("/v2", Router::new().route("/", any(v2))));
}`,
			want: []string{"put /items items::update", "any / v2"},
		},
		{
			name: "on and method routers",
			src: `fn app() {
    debug_router!(Router::new().route("/", on(MethodFilter::GET, root)).route("/x", get(a).fallback(b)));
}`,
			want: []string{"MethodFilter::GET / root", "get /x a"},
		},
		{
			name: "services and closures are skipped",
			src: `fn app() {
    debug_router!(Router::new()
        .route("/static", get_service(ServeDir::new("assets")))
        .route("/c", get(|| async { "hi" }))
        .route("/m", get(Handler::method.clone())));
}`,
			want: []string{},
		},
		{
			name: "let shadowing uses the binding before the router",
			src: `fn app() {
    let r = Router::new().route("/", get(first));
    debug_router!(r);
    let r = Router::new().route("/", get(second));
}`,
			want: []string{"get / first"},
		},
		{
			name: "self reference terminates",
			src: `fn app() {
    let r = r.route("/", get(h));
    debug_router!(r);
}`,
			want: []string{"get / h"},
		},
		{
			name: "unbound identifier",
			src:  `fn app() { debug_router!(missing); }`,
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := parse(t, "src/main.rs", tt.src)
			calls := routerCalls(file)
			require.Len(t, calls, 1)
			assert.Equal(t, tt.want, names(Registrations(file, calls[0])))
		})
	}
}

func TestRegistrations_Span(t *testing.T) {
	src := `fn app() { debug_router!(Router::new().route("/", get(handlers::root))); }`
	file := parse(t, "src/main.rs", src)

	regs := Registrations(file, routerCalls(file)[0])
	require.Len(t, regs, 1)
	assert.Equal(t, "handlers::root", regs[0].Span.Text(src))
	assert.Equal(t, "src/main.rs", regs[0].Span.File)
	assert.Equal(t, []string{"handlers", "root"}, regs[0].Handler)
}

func TestIndex_Resolve(t *testing.T) {
	main := parse(t, "src/main.rs", `async fn root() {} async fn list() {}`)
	users := parse(t, "src/users.rs", `pub async fn list() {} pub async fn create() {}`)
	admin := parse(t, "src/admin/mod.rs", `pub async fn list() {}`)
	methods := parse(t, "src/service.rs", `impl S { fn handle(&self) {} }`)

	ix := NewIndex([]*syntax.File{main, users, admin, methods})

	tests := []struct {
		path []string
		from string
		file string
		ok   bool
	}{
		{[]string{"root"}, "src/main.rs", "src/main.rs", true},
		{[]string{"list"}, "src/main.rs", "src/main.rs", true},
		{[]string{"list"}, "src/users.rs", "src/users.rs", true},
		{[]string{"users", "list"}, "src/main.rs", "src/users.rs", true},
		{[]string{"crate", "admin", "list"}, "src/main.rs", "src/admin/mod.rs", true},
		{[]string{"create"}, "src/main.rs", "src/users.rs", true},
		{[]string{"Self", "handle"}, "src/service.rs", "", false},
		{[]string{"handle"}, "src/service.rs", "", false},
		{[]string{"nothing"}, "src/main.rs", "", false},
		{nil, "src/main.rs", "", false},
	}
	for _, tt := range tests {
		target, ok := ix.Resolve(tt.path, tt.from)
		assert.Equal(t, tt.ok, ok, "%v", tt.path)
		if ok {
			assert.Equal(t, tt.file, target.File, "%v", tt.path)
			assert.Equal(t, tt.path[len(tt.path)-1], target.Fn.Name.Value)
		}
	}
}

func TestKey(t *testing.T) {
	file := parse(t, "a.rs", "async fn a() {}\nasync fn b() {}")
	fns := file.Functions()

	ka := KeyOf("a.rs", fns[0])
	assert.Equal(t, Key{File: "a.rs", Offset: 0}, ka)
	assert.NotEqual(t, ka, KeyOf("a.rs", fns[1]))
	assert.Equal(t, ka, Target{File: "a.rs", Fn: fns[0]}.Key())
}

func TestAggregate(t *testing.T) {
	handlers := parse(t, "src/handlers.rs", `
pub async fn ok() -> bool { true }
pub fn sync_handler() -> bool { true }
pub async fn bad_body(body: String, id: Path<u32>) {}
`)
	mainSrc := `fn app() {
    debug_router!(Router::new()
        .route("/ok", get(handlers::ok))
        .route("/sync", get(handlers::sync_handler).post(handlers::sync_handler))
        .route("/body", post(handlers::bad_body))
        .route("/missing", get(handlers::missing)));
}`
	main := parse(t, "src/main.rs", mainSrc)

	set := rules.Default(classify.Default())
	agg := NewAggregator(NewIndex([]*syntax.File{handlers, main}), set, nil)

	res, err := agg.Aggregate(main, routerCalls(main)[0])
	require.NoError(t, err)
	assert.Len(t, res.Registrations, 5)
	assert.Equal(t, 4, res.Checked, "the missing handler does not resolve")
	require.Len(t, res.Diagnostics, 2, "sync_handler is reported once")

	d := res.Diagnostics[0]
	assert.Equal(t, rules.AsyncHandler, d.RuleID)
	assert.Equal(t, "sync_handler", d.Handler)
	assert.Equal(t, "src/handlers.rs", d.Span.File)
	require.Len(t, d.Notes, 1)
	assert.Equal(t, RegisteredHere, d.Notes[0].Message)
	assert.Equal(t, "handlers::sync_handler", d.Notes[0].Span.Text(mainSrc))
	assert.Equal(t, 4, d.Notes[0].Span.Start.Line)

	assert.Equal(t, rules.BodyExtractorOrder, res.Diagnostics[1].RuleID)
	assert.Equal(t, "bad_body", res.Diagnostics[1].Handler)

	fns := handlers.Functions()
	assert.True(t, agg.Reported(KeyOf("src/handlers.rs", fns[1])))
	assert.False(t, agg.Reported(KeyOf("src/handlers.rs", fns[0])))

	again, err := agg.Aggregate(main, routerCalls(main)[0])
	require.NoError(t, err)
	assert.Empty(t, again.Diagnostics, "handlers are reported once across routers")
}

func TestAggregate_SharedReported(t *testing.T) {
	file := parse(t, "src/main.rs", `
fn h() {}
fn app() { debug_router!(Router::new().route("/", get(h))); }
`)
	reported := map[Key]bool{KeyOf("src/main.rs", file.Functions()[0]): true}
	agg := NewAggregator(NewIndex([]*syntax.File{file}), rules.Default(classify.Default()), reported)

	res, err := agg.Aggregate(file, routerCalls(file)[0])
	require.NoError(t, err)
	assert.Equal(t, 1, res.Checked)
	assert.Empty(t, res.Diagnostics)
}
