package adapters

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toyz/axon-debug/pkg/axondebug"
)

// GinAdapter mounts services into a Gin engine
type GinAdapter struct {
	engine *gin.Engine
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter creates a Gin adapter around a bare engine
func NewDefaultGinAdapter() *GinAdapter {
	return &GinAdapter{engine: gin.New()}
}

func ginPath(p axondebug.RoutePath) string {
	return p.Format(
		func(name string) string { return ":" + name },
		func(name string) string {
			if name == "" {
				name = "path"
			}
			return "*" + name
		},
	)
}

// Handle registers handler with the engine
func (ga *GinAdapter) Handle(method string, path axondebug.RoutePath, handler http.Handler) {
	h := gin.WrapH(handler)
	if method == "" {
		ga.engine.Any(ginPath(path), h)
		return
	}
	ga.engine.Handle(method, ginPath(path), h)
}

func (ga *GinAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ga.engine.ServeHTTP(w, r)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// GetEngine returns the underlying Gin engine
func (ga *GinAdapter) GetEngine() *gin.Engine {
	return ga.engine
}
