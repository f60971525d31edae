package ginadapter

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FromHTTP turns a net/http middleware into a gin middleware. The rest of the
// gin chain runs as the wrapped handler.
func FromHTTP(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			c.Request = r
			c.Next()
		})
		mw(next).ServeHTTP(c.Writer, c.Request)
		if !called {
			c.Abort()
		}
	}
}
