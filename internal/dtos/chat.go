// File: internal/dtos/chat.go
package dtos

type NewChatRequestDTO struct {
	ChatTitle string `json:"chatTitle" validate:"max=255"`
}

type RenameChatRequestDTO struct {
	NewTitle string `json:"newTitle" validate:"required,max=255"`
}

type SendMessageRequestDTO struct {
	Message   string `json:"message" validate:"required,max=10000"`
	SessionID string `json:"sessionId" validate:"required,max=64"`
}

// ApplySchemaRequestDTO must carry confirm=true before any DDL runs.
type ApplySchemaRequestDTO struct {
	Confirm bool `json:"confirm"`
}
