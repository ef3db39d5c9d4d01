package adapters

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/toyz/axon-debug/pkg/axondebug"
)

// MuxAdapter mounts services into a gorilla/mux router
type MuxAdapter struct {
	router *mux.Router
}

// NewMuxAdapter creates a new gorilla/mux adapter
func NewMuxAdapter(r *mux.Router) *MuxAdapter {
	return &MuxAdapter{router: r}
}

// NewDefaultMuxAdapter creates a gorilla/mux adapter around a new router
func NewDefaultMuxAdapter() *MuxAdapter {
	return &MuxAdapter{router: mux.NewRouter()}
}

func muxPath(p axondebug.RoutePath) string {
	return p.Format(
		func(name string) string { return "{" + name + "}" },
		func(name string) string {
			if name == "" {
				name = "path"
			}
			return "{" + name + ":.*}"
		},
	)
}

// Handle registers handler with the router
func (ma *MuxAdapter) Handle(method string, path axondebug.RoutePath, handler http.Handler) {
	methods := anyMethods
	if method != "" {
		methods = []string{method}
	}
	ma.router.Handle(muxPath(path), handler).Methods(methods...)
}

func (ma *MuxAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ma.router.ServeHTTP(w, r)
}

// Name returns the adapter name
func (ma *MuxAdapter) Name() string {
	return "Mux"
}

// GetRouter returns the underlying router
func (ma *MuxAdapter) GetRouter() *mux.Router {
	return ma.router
}
