// File: internal/handlers/routes.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes mounts the chat API on a router that already
// authenticates. limitMessages wraps the model-backed message route.
func RegisterChatRoutes(api *mux.Router, h *ChatHandler, limitMessages func(http.Handler) http.Handler) {
	if limitMessages == nil {
		limitMessages = func(next http.Handler) http.Handler { return next }
	}

	c := api.PathPrefix("/chat").Subrouter()
	c.HandleFunc("/new", h.CreateChat).Methods(http.MethodPost)
	c.HandleFunc("/all", h.GetUserChats).Methods(http.MethodGet)
	c.Handle("/message", limitMessages(http.HandlerFunc(h.HandleChatMessage))).Methods(http.MethodPost)
	c.HandleFunc("/{sessionId}", h.GetChat).Methods(http.MethodGet)
	c.HandleFunc("/{sessionId}/title", h.RenameChat).Methods(http.MethodPut)
	c.HandleFunc("/{sessionId}", h.DeleteChat).Methods(http.MethodDelete)
	c.HandleFunc("/{sessionId}/schemas/{schemaId:[0-9]+}/apply", h.ApplySchema).Methods(http.MethodPost)
	c.HandleFunc("/{sessionId}/queries/{queryId:[0-9]+}/execute", h.ExecuteQuery).Methods(http.MethodPost)
}

// RegisterAuthRoutes mounts the public auth API. limit wraps register and login.
func RegisterAuthRoutes(api *mux.Router, h *AuthHandler, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	a := api.PathPrefix("/auth").Subrouter()
	a.Handle("/register", limit(http.HandlerFunc(h.Register))).Methods(http.MethodPost)
	a.Handle("/login", limit(http.HandlerFunc(h.Login))).Methods(http.MethodPost)
	a.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)
}

// Health reports liveness.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "OK"})
}
