// File: internal/domain/query.go
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Query is a SQL query generated from a natural-language request.
type Query struct {
	ID              uint           `json:"id" gorm:"primarykey"`
	ChatID          string         `json:"chat_id" gorm:"size:36;not null;index"`
	NaturalLanguage string         `json:"natural_language" gorm:"type:text;not null"`
	GeneratedSQL    string         `json:"generated_sql" gorm:"type:text;not null"`
	WasExecuted     bool           `json:"was_executed" gorm:"not null;default:false"`
	ExecutionResult datatypes.JSON `json:"execution_result,omitempty"`
	ExecutedAt      *time.Time     `json:"executed_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (Query) TableName() string {
	return "chat_queries"
}
