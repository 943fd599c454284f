// File: internal/services/chat/sessions.go
package chat

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/iyunix/go-sqlchat/internal/domain"
)

const maxTitleLength = 255

// CreateChat opens a new session. A blank title becomes "New Chat".
func (s *Service) CreateChat(ctx context.Context, userID uint, title string) (*domain.Chat, error) {
	const op = "create_chat"
	if userID == 0 {
		return nil, NewValidationError(op, "user is required")
	}
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, NewValidationError(op, "title is too long")
	}

	chat, err := s.store.CreateSession(ctx, userID, title)
	if err != nil {
		s.logger.Error("failed to create chat", "user_id", userID, "error", err)
		return nil, NewPersistenceError(op, "could not create chat", "", err)
	}
	s.logger.Info("chat created", "chat_id", chat.ID, "user_id", userID)
	return chat, nil
}

// ListChats returns the user's active chats, most recently updated first.
func (s *Service) ListChats(ctx context.Context, userID uint) ([]domain.ChatSummary, error) {
	const op = "list_chats"
	if userID == 0 {
		return nil, NewValidationError(op, "user is required")
	}
	chats, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		return nil, NewPersistenceError(op, "could not load chats", "", err)
	}
	if chats == nil {
		chats = []domain.ChatSummary{}
	}
	return chats, nil
}

// GetChatDetail returns a session with all schemas and messages and the
// recent query window.
func (s *Service) GetChatDetail(ctx context.Context, userID uint, chatID string) (*ChatDetail, error) {
	const op = "get_chat"
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return nil, NewValidationError(op, "sessionId is required")
	}

	session, err := s.getOwnedSession(ctx, op, userID, chatID)
	if err != nil {
		return nil, err
	}

	schemas, err := s.store.GetSchemas(ctx, chatID)
	if err != nil {
		return nil, NewPersistenceError(op, "could not load schemas", chatID, err)
	}
	queries, err := s.store.GetRecentQueries(ctx, chatID, s.config.RecentQueryLimit)
	if err != nil {
		return nil, NewPersistenceError(op, "could not load queries", chatID, err)
	}
	messages, err := s.store.GetMessages(ctx, chatID)
	if err != nil {
		return nil, NewPersistenceError(op, "could not load messages", chatID, err)
	}

	return &ChatDetail{Session: session, Schemas: schemas, Queries: queries, Messages: messages}, nil
}

// RenameChat sets a session title chosen by its owner.
func (s *Service) RenameChat(ctx context.Context, userID uint, chatID, title string) error {
	const op = "rename_chat"
	chatID = strings.TrimSpace(chatID)
	title = strings.TrimSpace(title)
	if chatID == "" {
		return NewValidationError(op, "sessionId is required")
	}
	if title == "" {
		return NewValidationError(op, "title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return NewValidationError(op, "title is too long")
	}

	unlock := s.locks.Lock(chatID)
	defer unlock()

	if _, err := s.getOwnedSession(ctx, op, userID, chatID); err != nil {
		return err
	}
	if err := s.store.SetSessionTitle(ctx, chatID, userID, title); err != nil {
		return NewPersistenceError(op, "could not rename chat", chatID, err)
	}
	return nil
}

// DeactivateChat hides a chat from its owner. Nothing is physically deleted.
func (s *Service) DeactivateChat(ctx context.Context, userID uint, chatID string) error {
	const op = "delete_chat"
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return NewValidationError(op, "sessionId is required")
	}

	unlock := s.locks.Lock(chatID)
	defer unlock()

	if _, err := s.getOwnedSession(ctx, op, userID, chatID); err != nil {
		return err
	}
	if err := s.store.DeactivateSession(ctx, chatID, userID); err != nil {
		return NewPersistenceError(op, "could not delete chat", chatID, err)
	}
	s.logger.Info("chat deactivated", "chat_id", chatID, "user_id", userID)
	return nil
}
