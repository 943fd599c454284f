// File: internal/handlers/auth_handlers.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/iyunix/go-sqlchat/internal/domain"
	"github.com/iyunix/go-sqlchat/internal/dtos"
	"github.com/iyunix/go-sqlchat/internal/middleware"
	"github.com/iyunix/go-sqlchat/internal/ratelimit"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, identifier, password, sourceIP string) (*domain.User, string, error)
}

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	auth     AuthService
	tokenTTL time.Duration
	logger   Logger
}

func NewAuthHandler(auth AuthService, tokenTTL time.Duration, logger Logger) *AuthHandler {
	return &AuthHandler{auth: auth, tokenTTL: tokenTTL, logger: logger}
}

// Register handles new user registrations.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := dtos.Validate(req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Registration successful",
		"user":    dtos.ToUserResponse(user),
	})
}

// Login validates credentials, returns the token and sets it as a cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := dtos.Validate(req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Identifier(), req.Password, ratelimit.GetClientIP(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.tokenTTL),
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, dtos.LoginResponseDTO{
		Success: true,
		User:    dtos.ToUserResponse(user),
		Token:   token,
	})
}

// Logout clears the auth cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Logged out"})
}
