package adapters

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// pathService answers with the method and path it saw.
type pathService struct {
	prefix string
}

func (s pathService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, s.prefix+r.Method+" "+r.URL.Path)
}

func (s pathService) Clone() pathService {
	return s
}

func routers() []Router {
	return []Router{
		NewDefaultGinAdapter(),
		NewDefaultEchoAdapter(),
		NewDefaultFiberAdapter(),
		NewDefaultMuxAdapter(),
	}
}

func serve(t *testing.T, r Router, method, target string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec.Code, rec.Body.String()
}

func TestMountStaticRoute(t *testing.T) {
	for _, r := range routers() {
		t.Run(r.Name(), func(t *testing.T) {
			Mount(r, http.MethodGet, "/health", pathService{prefix: "svc: "})

			code, body := serve(t, r, http.MethodGet, "/health")
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, "svc: GET /health", body)
		})
	}
}

func TestMountParameterRoute(t *testing.T) {
	for _, r := range routers() {
		t.Run(r.Name(), func(t *testing.T) {
			Mount(r, http.MethodPost, "/users/:id", pathService{})

			code, body := serve(t, r, http.MethodPost, "/users/42")
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, "POST /users/42", body)
		})
	}
}

func TestMountWildcardRoute(t *testing.T) {
	for _, r := range routers() {
		t.Run(r.Name(), func(t *testing.T) {
			Mount(r, http.MethodGet, "/static/{*rest}", pathService{})

			code, body := serve(t, r, http.MethodGet, "/static/css/site.css")
			assert.Equal(t, http.StatusOK, code)
			assert.True(t, strings.HasSuffix(body, "/static/css/site.css"), body)
		})
	}
}

func TestMountAnyMethod(t *testing.T) {
	for _, r := range routers() {
		t.Run(r.Name(), func(t *testing.T) {
			Mount(r, "", "/any", pathService{})

			for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
				code, body := serve(t, r, method, "/any")
				assert.Equal(t, http.StatusOK, code, method)
				assert.Equal(t, method+" /any", body)
			}
		})
	}
}

func TestMountWrongMethodIsNotServed(t *testing.T) {
	for _, r := range routers() {
		t.Run(r.Name(), func(t *testing.T) {
			Mount(r, http.MethodGet, "/only-get", pathService{})

			code, _ := serve(t, r, http.MethodPost, "/only-get")
			assert.NotEqual(t, http.StatusOK, code)
		})
	}
}

func TestFiberAppTest(t *testing.T) {
	fa := NewDefaultFiberAdapter()
	Mount(fa, http.MethodGet, "/ping", pathService{})

	resp, err := fa.GetApp().Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "GET /ping", string(body))
}

func TestAdapterNames(t *testing.T) {
	var names []string
	for _, r := range routers() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"Gin", "Echo", "Fiber", "Mux"}, names)
}
