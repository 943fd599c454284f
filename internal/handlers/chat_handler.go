// File: internal/handlers/chat_handler.go
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-sqlchat/internal/domain"
	"github.com/iyunix/go-sqlchat/internal/dtos"
	"github.com/iyunix/go-sqlchat/internal/middleware"
	"github.com/iyunix/go-sqlchat/internal/services/chat"
	"github.com/iyunix/go-sqlchat/internal/services/sandbox"
)

type ChatService interface {
	CreateChat(ctx context.Context, userID uint, title string) (*domain.Chat, error)
	ListChats(ctx context.Context, userID uint) ([]domain.ChatSummary, error)
	GetChatDetail(ctx context.Context, userID uint, chatID string) (*chat.ChatDetail, error)
	RenameChat(ctx context.Context, userID uint, chatID, title string) error
	DeactivateChat(ctx context.Context, userID uint, chatID string) error
	SendMessage(ctx context.Context, userID uint, chatID, text string) (*chat.MessageReply, error)
}

type SandboxService interface {
	ApplySchema(ctx context.Context, userID uint, chatID string, schemaID uint, confirm bool) (*sandbox.ApplyResult, error)
	ExecuteQuery(ctx context.Context, userID uint, chatID string, queryID uint) (*sandbox.QueryResult, error)
}

type ChatHandler struct {
	chats   ChatService
	sandbox SandboxService
	logger  Logger
}

func NewChatHandler(chats ChatService, sandbox SandboxService, logger Logger) *ChatHandler {
	return &ChatHandler{chats: chats, sandbox: sandbox, logger: logger}
}

// CreateChat handles POST /api/chat/new.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.NewChatRequestDTO
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}
	if err := dtos.Validate(req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.chats.CreateChat(r.Context(), userID, req.ChatTitle)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"sessionId": session.ID,
		"title":     session.Title,
		"createdAt": session.CreatedAt,
	})
}

// GetUserChats handles the request to retrieve all chats for a user.
func (h *ChatHandler) GetUserChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chats, err := h.chats.ListChats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "chats": chats})
}

// GetChat returns one chat with its schemas, recent queries and messages.
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	detail, err := h.chats.GetChatDetail(r.Context(), userID, mux.Vars(r)["sessionId"])
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"session":  detail.Session,
		"schemas":  detail.Schemas,
		"queries":  detail.Queries,
		"messages": detail.Messages,
	})
}

func (h *ChatHandler) RenameChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.RenameChatRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := dtos.Validate(req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.chats.RenameChat(r.Context(), userID, mux.Vars(r)["sessionId"], req.NewTitle); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Chat renamed"})
}

func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.chats.DeactivateChat(r.Context(), userID, mux.Vars(r)["sessionId"]); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Chat deleted"})
}

// HandleChatMessage runs one conversational turn.
func (h *ChatHandler) HandleChatMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.SendMessageRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := dtos.Validate(req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	reply, err := h.chats.SendMessage(r.Context(), userID, req.SessionID, req.Message)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// ApplySchema runs a stored schema against the sandbox after confirmation.
func (h *ChatHandler) ApplySchema(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	schemaID, err := strconv.ParseUint(vars["schemaId"], 10, 32)
	if err != nil {
		writeError(w, "Invalid schema ID", http.StatusBadRequest)
		return
	}
	var req dtos.ApplySchemaRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.sandbox.ApplySchema(r.Context(), userID, vars["sessionId"], uint(schemaID), req.Confirm)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	message := "Schema applied"
	if !result.Applied {
		message = "Schema could not be applied; all changes were rolled back"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": result.Applied,
		"message": message,
		"result":  result,
	})
}

// ExecuteQuery runs a stored SELECT against the sandbox.
func (h *ChatHandler) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	queryID, err := strconv.ParseUint(vars["queryId"], 10, 32)
	if err != nil {
		writeError(w, "Invalid query ID", http.StatusBadRequest)
		return
	}

	result, err := h.sandbox.ExecuteQuery(r.Context(), userID, vars["sessionId"], uint(queryID))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "result": result})
}
