// File: internal/middleware/constants.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

// Context keys for middleware communication
type contextKey string

const (
	UserIDKey contextKey = "user_id"
)

const AuthCookieName = "auth_token"

// Logger is the key/value logger the middleware writes through.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// UserIDFromContext returns the authenticated user set by the JWT middleware.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok && id != 0
}

// WithUserID stores an authenticated user ID on ctx.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
