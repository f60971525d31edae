// Package ginadapter mounts the dispatch core inside a Gin engine. Gin keeps
// serving its own routes; every request it cannot route is handed to the
// core.
package ginadapter

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler wraps h as a terminal gin handler.
func Handler(h http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
		// Flush a status set without a body so gin does not write its own.
		c.Writer.WriteHeaderNow()
		c.Abort()
	}
}

// Mount installs h as the fallback of engine.
func Mount(engine *gin.Engine, h http.Handler) {
	engine.NoRoute(Handler(h))
}

// New creates a release-mode engine running middlewares and falling back to
// h.
func New(h http.Handler, middlewares ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(middlewares...)
	Mount(e, h)
	return e
}
