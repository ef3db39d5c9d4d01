package adapters

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/toyz/axon-debug/pkg/axondebug"
)

// FiberAdapter mounts services into a Fiber app
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a Fiber adapter around app
func NewFiberAdapter(app *fiber.App) *FiberAdapter {
	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates a Fiber adapter with a JSON error handler
func NewDefaultFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	return &FiberAdapter{app: app}
}

// Fiber wildcards are anonymous; "+" would reject an empty remainder.
func fiberPath(p axondebug.RoutePath) string {
	return p.Format(
		func(name string) string { return ":" + name },
		func(string) string { return "*" },
	)
}

// Handle registers handler with the app
func (fa *FiberAdapter) Handle(method string, path axondebug.RoutePath, handler http.Handler) {
	h := adaptor.HTTPHandler(handler)
	if method == "" {
		fa.app.All(fiberPath(path), h)
		return
	}
	fa.app.Add(method, fiberPath(path), h)
}

// ServeHTTP serves through Fiber's net/http bridge
func (fa *FiberAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	adaptor.FiberApp(fa.app).ServeHTTP(w, r)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// GetApp returns the underlying Fiber app
func (fa *FiberAdapter) GetApp() *fiber.App {
	return fa.app
}
