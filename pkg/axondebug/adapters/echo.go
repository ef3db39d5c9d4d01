package adapters

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/toyz/axon-debug/pkg/axondebug"
)

// EchoAdapter mounts services into an Echo instance
type EchoAdapter struct {
	echo *echo.Echo
}

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{echo: e}
}

// NewDefaultEchoAdapter creates an Echo adapter around a new instance
func NewDefaultEchoAdapter() *EchoAdapter {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &EchoAdapter{echo: e}
}

// Echo only supports an anonymous trailing wildcard.
func echoPath(p axondebug.RoutePath) string {
	return p.Format(
		func(name string) string { return ":" + name },
		func(string) string { return "*" },
	)
}

// Handle registers handler with the Echo router
func (ea *EchoAdapter) Handle(method string, path axondebug.RoutePath, handler http.Handler) {
	h := echo.WrapHandler(handler)
	if method == "" {
		ea.echo.Any(echoPath(path), h)
		return
	}
	ea.echo.Add(method, echoPath(path), h)
}

func (ea *EchoAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ea.echo.ServeHTTP(w, r)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// GetEcho returns the underlying Echo instance
func (ea *EchoAdapter) GetEcho() *echo.Echo {
	return ea.echo
}
