package echoadapter

import (
	"net/http"

	"github.com/labstack/echo/v5"
)

// FromHTTP turns a net/http middleware into an echo middleware. The rest of
// the echo chain runs as the wrapped handler; when mw does not call it, the
// chain stops.
func FromHTTP(mw func(http.Handler) http.Handler) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			var err error
			inner := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)
				err = next(c)
			})
			mw(inner).ServeHTTP(c.Response(), c.Request())
			return err
		}
	}
}
