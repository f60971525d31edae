// Package fiberadapter mounts the dispatch core inside a Fiber app. Fiber
// runs on fasthttp, so requests cross the fasthttp/net/http bridge in both
// directions.
package fiberadapter

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

// Handler wraps h as a terminal fiber handler.
func Handler(h http.Handler) fiber.Handler {
	return adaptor.HTTPHandler(h)
}

// Mount installs h as the fallback of app. Fiber matches in registration
// order, so native routes must be registered before Mount is called.
func Mount(app *fiber.App, h http.Handler) {
	app.Use(Handler(h))
}

// New creates an app running middlewares, then setup, then falling back to h.
// setup may be nil.
func New(h http.Handler, setup func(*fiber.App), middlewares ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{Immutable: true})
	for _, mw := range middlewares {
		app.Use(mw)
	}
	if setup != nil {
		setup(app)
	}
	Mount(app, h)
	return app
}

// HTTP exposes app as a net/http handler so it can be served by http.Server
// and tested with httptest.
func HTTP(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
