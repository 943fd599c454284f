// File: internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"
	"time"
)

// TokenValidator resolves a bearer token to a user ID.
type TokenValidator interface {
	ValidateJWTToken(token string) (uint, error)
}

// NewJWTMiddleware accepts a token from the Authorization header or the
// auth_token cookie and rejects the request with a JSON 401 otherwise.
func NewJWTMiddleware(validator TokenValidator, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromCookie := tokenFromRequest(r)
			if token == "" {
				logger.Debug("missing auth token", "path", r.URL.Path)
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			userID, err := validator.ValidateJWTToken(token)
			if err != nil {
				logger.Warn("invalid auth token", "path", r.URL.Path, "error", err)
				if fromCookie {
					http.SetCookie(w, &http.Cookie{
						Name:     AuthCookieName,
						Value:    "",
						Path:     "/",
						Expires:  time.Unix(0, 0),
						HttpOnly: true,
						Secure:   true,
						SameSite: http.SameSiteLaxMode,
					})
				}
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func tokenFromRequest(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token), false
		}
	}
	if cookie, err := r.Cookie(AuthCookieName); err == nil {
		return cookie.Value, true
	}
	return "", false
}
