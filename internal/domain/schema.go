// File: internal/domain/schema.go
package domain

import "time"

// UnknownTable is stored when no table name could be read from a schema statement.
const UnknownTable = "unknown_table"

// Schema is a table definition produced during a chat.
type Schema struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	ChatID       string    `json:"chat_id" gorm:"size:36;not null;index"`
	Table        string    `json:"table_name" gorm:"column:table_name;size:255;not null"`
	SQLStatement string    `json:"sql_statement" gorm:"type:text;not null"`
	Description  string    `json:"description" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Schema) TableName() string {
	return "chat_schemas"
}
