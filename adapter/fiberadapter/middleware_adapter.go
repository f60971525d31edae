package fiberadapter

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

// FromHTTP turns a net/http middleware into a fiber middleware. Request
// changes made by mw are copied back before the fiber chain continues.
func FromHTTP(mw func(http.Handler) http.Handler) fiber.Handler {
	return adaptor.HTTPMiddleware(mw)
}
