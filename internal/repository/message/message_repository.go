// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/iyunix/go-sqlchat/internal/domain"
)

const maxMessageLength = 100000

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		// Content is not logged.
		log.Printf("[MessageRepository] Database error during message creation for chat %s: %v", message.ChatID, err)
		return nil, errors.New("database error creating message")
	}

	return message, nil
}

// FindByChatID returns the whole conversation oldest first.
func (r *gormMessageRepository) FindByChatID(ctx context.Context, chatID string) ([]domain.Message, error) {
	if chatID == "" {
		return nil, errors.New("invalid chat ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for chat %s: %v", chatID, err)
		return nil, errors.New("database error fetching messages")
	}
	return messages, nil
}

// FindRecentMessages returns at most limit of the newest messages, oldest first.
func (r *gormMessageRepository) FindRecentMessages(ctx context.Context, chatID string, limit int) ([]domain.Message, error) {
	if chatID == "" {
		return nil, errors.New("invalid chat ID")
	}
	if limit <= 0 {
		return []domain.Message{}, nil
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding recent messages for chat %s: %v", chatID, err)
		return nil, errors.New("database error fetching recent messages")
	}

	reverse(messages)
	return messages, nil
}

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ChatID == "" {
		return errors.New("chat ID is required")
	}
	if !message.Role.Valid() {
		return fmt.Errorf("invalid role %q", message.Role)
	}
	if message.Content == "" {
		return errors.New("content cannot be empty")
	}
	if len(message.Content) > maxMessageLength {
		return fmt.Errorf("content cannot exceed %d bytes", maxMessageLength)
	}
	return nil
}

func reverse(messages []domain.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
