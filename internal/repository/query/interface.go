package query

import (
	"context"

	"gorm.io/datatypes"

	"github.com/iyunix/go-sqlchat/internal/domain"
)

// QueryRepository stores generated queries and their sandbox results.
type QueryRepository interface {
	Create(ctx context.Context, query *domain.Query) (*domain.Query, error)
	FindRecentByChatID(ctx context.Context, chatID string, limit int) ([]domain.Query, error)
	FindByIDAndChatID(ctx context.Context, queryID uint, chatID string) (*domain.Query, error)
	MarkExecuted(ctx context.Context, queryID uint, result datatypes.JSON) error
}
