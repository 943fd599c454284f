// File: internal/domain/message.go
package domain

import "time"

// MessageRole is the author of a stored message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Valid reports whether r is one of the roles a message may carry.
func (r MessageRole) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message represents a single message within a chat. Messages are never edited.
type Message struct {
	ID        uint        `json:"id" gorm:"primarykey"`
	ChatID    string      `json:"chat_id" gorm:"size:36;not null;index:idx_messages_chat_created"`
	Role      MessageRole `json:"role" gorm:"size:16;not null"`
	Content   string      `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time   `json:"created_at" gorm:"index:idx_messages_chat_created"`
}
