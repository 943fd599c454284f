// File: internal/handlers/response.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iyunix/go-sqlchat/internal/services/chat"
	"github.com/iyunix/go-sqlchat/internal/services/sandbox"
	"github.com/iyunix/go-sqlchat/internal/services/user_services"
)

// Logger is the key/value logger handlers report server errors through.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]interface{}{"success": false, "message": message})
}

// writeServiceError maps a service error to a status code. Only the public
// message reaches the client.
func writeServiceError(w http.ResponseWriter, logger Logger, err error) {
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	}
	writeError(w, message, status)
}

func classify(err error) (int, string) {
	var userErr *user_services.ValidationError
	switch {
	case errors.Is(err, sandbox.ErrDisabled):
		return http.StatusServiceUnavailable, "SQL execution is not enabled on this server"
	case errors.As(err, &userErr):
		return http.StatusBadRequest, userErr.Msg
	case errors.Is(err, user_services.ErrUserExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, user_services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, user_services.ErrAccountLocked):
		return http.StatusTooManyRequests, err.Error()
	}

	switch chat.ErrorTypeOf(err) {
	case chat.ErrTypeValidation:
		return http.StatusBadRequest, chat.PublicMessage(err)
	case chat.ErrTypeNotFound:
		return http.StatusNotFound, chat.PublicMessage(err)
	case chat.ErrTypeGeneration:
		return http.StatusInternalServerError, chat.PublicMessage(err)
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
