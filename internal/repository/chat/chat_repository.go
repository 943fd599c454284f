// File: internal/repository/chat/chat_repository.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iyunix/go-sqlchat/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")

const maxTitleLength = 255

type gormChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

// Create inserts a chat, assigning a session id when none is set.
func (r *gormChatRepository) Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	if err := r.validateChatInput(chat); err != nil {
		log.Printf("[ChatRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	chat.IsActive = true
	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		log.Printf("[ChatRepository] Database error during chat creation for user ID %d: %v", chat.UserID, err)
		return nil, errors.New("database error creating chat")
	}

	log.Printf("[ChatRepository] Chat created with ID: %s for user: %d", chat.ID, chat.UserID)
	return chat, nil
}

func (r *gormChatRepository) FindActiveByIDAndUser(ctx context.Context, chatID string, userID uint) (*domain.Chat, error) {
	if err := validateIDs(chatID, userID); err != nil {
		return nil, err
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_active = ?", chatID, userID, true).
		First(&chat).Error
	return r.handleFindError(err, &chat, "FindActiveByIDAndUser")
}

// FindActiveSummariesByUser lists active chats, most recently updated first,
// with message and schema counts computed in the same query.
func (r *gormChatRepository) FindActiveSummariesByUser(ctx context.Context, userID uint) ([]domain.ChatSummary, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var summaries []domain.ChatSummary
	err := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Select(`chats.*,
			(SELECT COUNT(*) FROM messages WHERE messages.chat_id = chats.id) AS message_count,
			(SELECT COUNT(*) FROM chat_schemas WHERE chat_schemas.chat_id = chats.id) AS schema_count`).
		Where("chats.user_id = ? AND chats.is_active = ?", userID, true).
		Order("chats.updated_at DESC, chats.created_at DESC").
		Scan(&summaries).Error
	if err != nil {
		log.Printf("[ChatRepository] Database error listing chats for user ID %d: %v", userID, err)
		return nil, errors.New("database error fetching chats")
	}

	return summaries, nil
}

func (r *gormChatRepository) UpdateTitle(ctx context.Context, chatID string, userID uint, title string) error {
	if err := validateIDs(chatID, userID); err != nil {
		return err
	}
	if err := r.validateChatTitle(title); err != nil {
		return fmt.Errorf("title validation: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ? AND user_id = ? AND is_active = ?", chatID, userID, true).
		Updates(map[string]interface{}{"title": title, "updated_at": time.Now()})
	if result.Error != nil {
		log.Printf("[ChatRepository] Database error renaming chat %s: %v", chatID, result.Error)
		return errors.New("database error updating chat title")
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}

// Deactivate hides a chat from its owner. Rows are kept.
func (r *gormChatRepository) Deactivate(ctx context.Context, chatID string, userID uint) error {
	if err := validateIDs(chatID, userID); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ? AND user_id = ? AND is_active = ?", chatID, userID, true).
		Update("is_active", false)
	if result.Error != nil {
		log.Printf("[ChatRepository] Database error deactivating chat %s for user ID %d: %v", chatID, userID, result.Error)
		return errors.New("database error deleting chat")
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}

	log.Printf("[ChatRepository] Chat deactivated: %s for user %d", chatID, userID)
	return nil
}

func (r *gormChatRepository) TouchUpdatedAt(ctx context.Context, chatID string) error {
	if chatID == "" {
		return errors.New("invalid chat ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", chatID).
		Update("updated_at", time.Now())
	if result.Error != nil {
		log.Printf("[ChatRepository] Database error updating timestamp for chat %s: %v", chatID, result.Error)
		return errors.New("database error updating chat timestamp")
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (r *gormChatRepository) validateChatInput(chat *domain.Chat) error {
	if chat == nil {
		return errors.New("chat cannot be nil")
	}
	if chat.UserID == 0 {
		return errors.New("user ID is required")
	}
	if chat.ID != "" {
		if _, err := uuid.Parse(chat.ID); err != nil {
			return errors.New("chat ID must be a uuid")
		}
	}
	if chat.Title == "" {
		return nil
	}
	return r.validateChatTitle(chat.Title)
}

func (r *gormChatRepository) validateChatTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return fmt.Errorf("title cannot exceed %d characters", maxTitleLength)
	}
	return nil
}

func validateIDs(chatID string, userID uint) error {
	if chatID == "" || userID == 0 {
		return errors.New("invalid chat ID or user ID")
	}
	return nil
}

func (r *gormChatRepository) handleFindError(err error, chat *domain.Chat, operation string) (*domain.Chat, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		log.Printf("[ChatRepository] Database error in %s: %v", operation, err)
		return nil, errors.New("database error finding chat")
	}
	return chat, nil
}
