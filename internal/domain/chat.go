// File: internal/domain/chat.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultChatTitle is used when a chat is created without a title.
const DefaultChatTitle = "New Chat"

// Chat is one conversation thread owned by a user. Its ID is a uuid string
// so it can be handed to clients as an opaque session id.
type Chat struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    uint      `json:"user_id" gorm:"not null;index:idx_chats_user_active"`
	Title     string    `json:"title" gorm:"size:255;not null;default:'New Chat'"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true;index:idx_chats_user_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

// BeforeCreate assigns a session id when the caller did not supply one.
func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Title == "" {
		c.Title = DefaultChatTitle
	}
	return nil
}

// ChatSummary is a chat row plus the counters shown in chat lists.
type ChatSummary struct {
	Chat
	MessageCount int64 `json:"message_count"`
	SchemaCount  int64 `json:"schema_count"`
}
