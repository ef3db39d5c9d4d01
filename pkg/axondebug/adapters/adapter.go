// Package adapters mounts checked services into third-party routers.
package adapters

import (
	"net/http"

	"github.com/toyz/axon-debug/pkg/axondebug"
)

// Router is a web framework a service can be mounted into
type Router interface {
	http.Handler

	// Handle registers handler for method and path. An empty method matches
	// every method.
	Handle(method string, path axondebug.RoutePath, handler http.Handler)

	// Name returns the framework name
	Name() string
}

// Mount checks service and registers it with r. A service that is not
// cloneable fails to compile here.
func Mount[S axondebug.Service[S]](r Router, method string, path axondebug.RoutePath, service S) {
	r.Handle(method, path, axondebug.DebugService(service))
}

// anyMethods is the method set registered when Handle gets no method.
var anyMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodTrace,
}
