// File: internal/repository/query/query_repository.go
package query

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/iyunix/go-sqlchat/internal/domain"
)

var ErrQueryNotFound = errors.New("query not found")

type gormQueryRepository struct {
	db *gorm.DB
}

func NewQueryRepository(db *gorm.DB) QueryRepository {
	return &gormQueryRepository{db: db}
}

func (r *gormQueryRepository) Create(ctx context.Context, query *domain.Query) (*domain.Query, error) {
	if query == nil || query.ChatID == "" {
		return nil, errors.New("validation failed: chat ID is required")
	}
	if query.GeneratedSQL == "" {
		return nil, errors.New("validation failed: generated SQL is required")
	}

	if err := r.db.WithContext(ctx).Create(query).Error; err != nil {
		log.Printf("[QueryRepository] Database error saving query for chat %s: %v", query.ChatID, err)
		return nil, errors.New("database error creating query")
	}
	return query, nil
}

// FindRecentByChatID returns at most limit of the newest queries, oldest first.
func (r *gormQueryRepository) FindRecentByChatID(ctx context.Context, chatID string, limit int) ([]domain.Query, error) {
	if chatID == "" {
		return nil, errors.New("invalid chat ID")
	}
	if limit <= 0 {
		return []domain.Query{}, nil
	}

	var queries []domain.Query
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&queries).Error
	if err != nil {
		log.Printf("[QueryRepository] Database error finding recent queries for chat %s: %v", chatID, err)
		return nil, errors.New("database error fetching recent queries")
	}

	for i, j := 0, len(queries)-1; i < j; i, j = i+1, j-1 {
		queries[i], queries[j] = queries[j], queries[i]
	}
	return queries, nil
}

func (r *gormQueryRepository) FindByIDAndChatID(ctx context.Context, queryID uint, chatID string) (*domain.Query, error) {
	if queryID == 0 || chatID == "" {
		return nil, errors.New("invalid query ID or chat ID")
	}

	var query domain.Query
	err := r.db.WithContext(ctx).Where("id = ? AND chat_id = ?", queryID, chatID).First(&query).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQueryNotFound
		}
		log.Printf("[QueryRepository] Database error finding query %d: %v", queryID, err)
		return nil, errors.New("database error finding query")
	}
	return &query, nil
}

// MarkExecuted records a sandbox run. Earlier results are overwritten.
func (r *gormQueryRepository) MarkExecuted(ctx context.Context, queryID uint, result datatypes.JSON) error {
	if queryID == 0 {
		return errors.New("invalid query ID")
	}

	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&domain.Query{}).
		Where("id = ?", queryID).
		Updates(map[string]interface{}{
			"was_executed":     true,
			"execution_result": result,
			"executed_at":      &now,
		})
	if res.Error != nil {
		log.Printf("[QueryRepository] Database error recording execution of query %d: %v", queryID, res.Error)
		return errors.New("database error recording query execution")
	}
	if res.RowsAffected == 0 {
		return ErrQueryNotFound
	}
	return nil
}
