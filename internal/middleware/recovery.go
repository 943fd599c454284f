// File: internal/middleware/recovery.go
package middleware

import (
	"net/http"
	"runtime/debug"
)

// RecoverPanic turns a handler panic into a JSON 500 and logs the stack.
func RecoverPanic(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered", "error", err, "path", r.URL.Path, "stack", string(debug.Stack()))
					w.Header().Set("Connection", "close")
					writeJSONError(w, http.StatusInternalServerError, "Something went wrong on our end.")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
