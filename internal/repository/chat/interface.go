package chat

import (
	"context"

	"github.com/iyunix/go-sqlchat/internal/domain"
)

// ChatRepository handles chat session rows. Every lookup that takes a user
// ID only matches active chats owned by that user.
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error)
	FindActiveByIDAndUser(ctx context.Context, chatID string, userID uint) (*domain.Chat, error)
	FindActiveSummariesByUser(ctx context.Context, userID uint) ([]domain.ChatSummary, error)
	UpdateTitle(ctx context.Context, chatID string, userID uint, title string) error
	Deactivate(ctx context.Context, chatID string, userID uint) error
	TouchUpdatedAt(ctx context.Context, chatID string) error
}
