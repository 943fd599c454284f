// File: internal/services/chat/types.go
package chat

import (
	"context"

	"github.com/iyunix/go-sqlchat/internal/domain"
)

// Logger defines the logging interface used across chat services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Store is the durable per-chat state the service reads and appends to.
// Lists come back oldest first. Every append also bumps the chat's
// updated_at, so there is no separate touch. AppendQuery stores a query as
// not yet executed; execution results are recorded later by the sandbox
// through RecordQueryExecution.
type Store interface {
	CreateSession(ctx context.Context, userID uint, title string) (*domain.Chat, error)
	GetSession(ctx context.Context, chatID string, userID uint) (*domain.Chat, error)
	ListSessions(ctx context.Context, userID uint) ([]domain.ChatSummary, error)
	SetSessionTitle(ctx context.Context, chatID string, userID uint, title string) error
	DeactivateSession(ctx context.Context, chatID string, userID uint) error

	GetSchemas(ctx context.Context, chatID string) ([]domain.Schema, error)
	GetRecentQueries(ctx context.Context, chatID string, limit int) ([]domain.Query, error)
	GetRecentMessages(ctx context.Context, chatID string, limit int) ([]domain.Message, error)
	GetMessages(ctx context.Context, chatID string) ([]domain.Message, error)

	AppendMessage(ctx context.Context, chatID string, role domain.MessageRole, content string) (*domain.Message, error)
	AppendSchema(ctx context.Context, chatID, table, sql, description string) (*domain.Schema, error)
	AppendQuery(ctx context.Context, chatID, naturalLanguage, sql string) (*domain.Query, error)
}

// Renderer turns the conversational part of a reply into HTML.
type Renderer interface {
	Render(markdown string) (string, error)
}

// ChatContext is the state folded into a prompt. It is rebuilt for every
// request; an empty Schemas slice means the chat has no schema yet.
type ChatContext struct {
	Schemas  []domain.Schema
	Queries  []domain.Query
	Messages []domain.Message
}

// TableNames lists schema table names in schema order.
func (cc *ChatContext) TableNames() []string {
	names := make([]string, 0, len(cc.Schemas))
	for _, s := range cc.Schemas {
		names = append(names, s.Table)
	}
	return names
}

// ReplyType tells clients how to render a reply.
type ReplyType string

const (
	ReplyConversation ReplyType = "conversation"
	ReplySchema       ReplyType = "schema"
	ReplyQuery        ReplyType = "query"
	ReplyError        ReplyType = "error"
)

// MessageReply is the outcome of one SendMessage call.
type MessageReply struct {
	Success     bool         `json:"success"`
	SessionID   string       `json:"sessionId"`
	Intent      Intent       `json:"intent"`
	Type        ReplyType    `json:"type"`
	Message     string       `json:"message"`
	MessageHTML string       `json:"messageHtml,omitempty"`
	SQL         FormattedSQL `json:"sql,omitempty"`
	TableName   string       `json:"tableName,omitempty"`
	AllTables   []string     `json:"allTables,omitempty"`
	HasSQL      bool         `json:"hasSQL"`
	SchemaID    uint         `json:"schemaId,omitempty"`
	QueryID     uint         `json:"queryId,omitempty"`
}

// ChatDetail is a session with its full history.
type ChatDetail struct {
	Session  *domain.Chat     `json:"session"`
	Schemas  []domain.Schema  `json:"schemas"`
	Queries  []domain.Query   `json:"queries"`
	Messages []domain.Message `json:"messages"`
}
