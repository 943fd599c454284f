// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/iyunix/go-sqlchat/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByChatID(ctx context.Context, chatID string) ([]domain.Message, error)
	FindRecentMessages(ctx context.Context, chatID string, limit int) ([]domain.Message, error)
}
