// Package echoadapter mounts the dispatch core inside an Echo instance. Echo
// keeps serving its own routes; the core answers on the catch-all route.
package echoadapter

import (
	"net/http"

	"github.com/labstack/echo/v5"
)

// Handler wraps h as an echo handler. The core writes its own responses,
// including errors, so the returned error is always nil.
func Handler(h http.Handler) echo.HandlerFunc {
	return func(c *echo.Context) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}

// Mount installs h on the catch-all route of e. Static and parameterised
// echo routes take priority over it.
func Mount(e *echo.Echo, h http.Handler) {
	e.Any("/*", Handler(h))
}

// New creates an instance running middlewares and falling back to h.
func New(h http.Handler, middlewares ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Use(middlewares...)
	Mount(e, h)
	return e
}
