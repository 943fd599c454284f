// File: internal/repository/store.go
package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/iyunix/go-sqlchat/internal/domain"
	"github.com/iyunix/go-sqlchat/internal/repository/chat"
	"github.com/iyunix/go-sqlchat/internal/repository/message"
	"github.com/iyunix/go-sqlchat/internal/repository/query"
	"github.com/iyunix/go-sqlchat/internal/repository/schema"
)

// GormStore is the chat context store. Appends write the artifact and bump
// the owning chat's updated_at in one transaction.
type GormStore struct {
	db       *gorm.DB
	chats    chat.ChatRepository
	messages message.MessageRepository
	schemas  schema.SchemaRepository
	queries  query.QueryRepository
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:       db,
		chats:    chat.NewChatRepository(db),
		messages: message.NewMessageRepository(db),
		schemas:  schema.NewSchemaRepository(db),
		queries:  query.NewQueryRepository(db),
	}
}

func (s *GormStore) CreateSession(ctx context.Context, userID uint, title string) (*domain.Chat, error) {
	return s.chats.Create(ctx, &domain.Chat{UserID: userID, Title: title})
}

func (s *GormStore) GetSession(ctx context.Context, chatID string, userID uint) (*domain.Chat, error) {
	return s.chats.FindActiveByIDAndUser(ctx, chatID, userID)
}

func (s *GormStore) ListSessions(ctx context.Context, userID uint) ([]domain.ChatSummary, error) {
	return s.chats.FindActiveSummariesByUser(ctx, userID)
}

func (s *GormStore) SetSessionTitle(ctx context.Context, chatID string, userID uint, title string) error {
	return s.chats.UpdateTitle(ctx, chatID, userID, title)
}

func (s *GormStore) DeactivateSession(ctx context.Context, chatID string, userID uint) error {
	return s.chats.Deactivate(ctx, chatID, userID)
}

func (s *GormStore) GetSchemas(ctx context.Context, chatID string) ([]domain.Schema, error) {
	return s.schemas.FindByChatID(ctx, chatID)
}

func (s *GormStore) GetSchema(ctx context.Context, chatID string, schemaID uint) (*domain.Schema, error) {
	return s.schemas.FindByIDAndChatID(ctx, schemaID, chatID)
}

func (s *GormStore) GetRecentQueries(ctx context.Context, chatID string, limit int) ([]domain.Query, error) {
	return s.queries.FindRecentByChatID(ctx, chatID, limit)
}

func (s *GormStore) GetQuery(ctx context.Context, chatID string, queryID uint) (*domain.Query, error) {
	return s.queries.FindByIDAndChatID(ctx, queryID, chatID)
}

func (s *GormStore) RecordQueryExecution(ctx context.Context, queryID uint, result datatypes.JSON) error {
	return s.queries.MarkExecuted(ctx, queryID, result)
}

func (s *GormStore) GetRecentMessages(ctx context.Context, chatID string, limit int) ([]domain.Message, error) {
	return s.messages.FindRecentMessages(ctx, chatID, limit)
}

func (s *GormStore) GetMessages(ctx context.Context, chatID string) ([]domain.Message, error) {
	return s.messages.FindByChatID(ctx, chatID)
}

func (s *GormStore) AppendMessage(ctx context.Context, chatID string, role domain.MessageRole, content string) (*domain.Message, error) {
	var saved *domain.Message
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		saved, err = message.NewMessageRepository(tx).Create(ctx, &domain.Message{ChatID: chatID, Role: role, Content: content})
		if err != nil {
			return err
		}
		return chat.NewChatRepository(tx).TouchUpdatedAt(ctx, chatID)
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *GormStore) AppendSchema(ctx context.Context, chatID, table, sql, description string) (*domain.Schema, error) {
	var saved *domain.Schema
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		saved, err = schema.NewSchemaRepository(tx).Create(ctx, &domain.Schema{
			ChatID:       chatID,
			Table:        table,
			SQLStatement: sql,
			Description:  description,
		})
		if err != nil {
			return err
		}
		return chat.NewChatRepository(tx).TouchUpdatedAt(ctx, chatID)
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *GormStore) AppendQuery(ctx context.Context, chatID, naturalLanguage, sql string) (*domain.Query, error) {
	var saved *domain.Query
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		saved, err = query.NewQueryRepository(tx).Create(ctx, &domain.Query{
			ChatID:          chatID,
			NaturalLanguage: naturalLanguage,
			GeneratedSQL:    sql,
		})
		if err != nil {
			return err
		}
		return chat.NewChatRepository(tx).TouchUpdatedAt(ctx, chatID)
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}
