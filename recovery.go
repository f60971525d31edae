package warpcore

import (
	"fmt"
	log "log/slog"
	"net/http"
	"runtime/debug"
)

const recoveredBody = "Something wrong happened"

// Recovery returns a middleware that recovers from panics raised outside the
// dispatch pipeline, logs them and answers 500 with a plain-text body.
// If stack is true, the stack trace is included in the log record.
func Recovery(logger *log.Logger, stack bool) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				attrs := []any{"method", r.Method, "uri", r.RequestURI, "panic", fmt.Sprint(rec)}
				if stack {
					attrs = append(attrs, "stack", string(debug.Stack()))
				}
				logger.Error("panic recovered", attrs...)

				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = fmt.Fprintf(w, "%s\n%v", recoveredBody, rec)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
