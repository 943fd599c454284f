// File: internal/repository/schema/schema_repository.go
package schema

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/iyunix/go-sqlchat/internal/domain"
)

var ErrSchemaNotFound = errors.New("schema not found")

type gormSchemaRepository struct {
	db *gorm.DB
}

func NewSchemaRepository(db *gorm.DB) SchemaRepository {
	return &gormSchemaRepository{db: db}
}

func (r *gormSchemaRepository) Create(ctx context.Context, schema *domain.Schema) (*domain.Schema, error) {
	if schema == nil || schema.ChatID == "" {
		return nil, errors.New("validation failed: chat ID is required")
	}
	if schema.SQLStatement == "" {
		return nil, errors.New("validation failed: SQL statement is required")
	}
	if schema.Table == "" {
		schema.Table = domain.UnknownTable
	}

	if err := r.db.WithContext(ctx).Create(schema).Error; err != nil {
		log.Printf("[SchemaRepository] Database error saving schema for chat %s: %v", schema.ChatID, err)
		return nil, errors.New("database error creating schema")
	}

	log.Printf("[SchemaRepository] Schema %d (%s) saved for chat %s", schema.ID, schema.Table, schema.ChatID)
	return schema, nil
}

// FindByChatID returns every schema of a chat in creation order.
func (r *gormSchemaRepository) FindByChatID(ctx context.Context, chatID string) ([]domain.Schema, error) {
	if chatID == "" {
		return nil, errors.New("invalid chat ID")
	}

	var schemas []domain.Schema
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&schemas).Error
	if err != nil {
		log.Printf("[SchemaRepository] Database error finding schemas for chat %s: %v", chatID, err)
		return nil, errors.New("database error fetching schemas")
	}
	return schemas, nil
}

func (r *gormSchemaRepository) FindByIDAndChatID(ctx context.Context, schemaID uint, chatID string) (*domain.Schema, error) {
	if schemaID == 0 || chatID == "" {
		return nil, errors.New("invalid schema ID or chat ID")
	}

	var schema domain.Schema
	err := r.db.WithContext(ctx).Where("id = ? AND chat_id = ?", schemaID, chatID).First(&schema).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchemaNotFound
		}
		log.Printf("[SchemaRepository] Database error finding schema %d: %v", schemaID, err)
		return nil, fmt.Errorf("database error finding schema")
	}
	return &schema, nil
}
