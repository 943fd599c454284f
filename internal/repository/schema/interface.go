package schema

import (
	"context"

	"github.com/iyunix/go-sqlchat/internal/domain"
)

// SchemaRepository stores table definitions generated in a chat.
type SchemaRepository interface {
	Create(ctx context.Context, schema *domain.Schema) (*domain.Schema, error)
	FindByChatID(ctx context.Context, chatID string) ([]domain.Schema, error)
	FindByIDAndChatID(ctx context.Context, schemaID uint, chatID string) (*domain.Schema, error)
}
