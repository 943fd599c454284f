// File: internal/services/sandbox/apply.go
package sandbox

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	schemarepo "github.com/iyunix/go-sqlchat/internal/repository/schema"
	"github.com/iyunix/go-sqlchat/internal/services/chat"
)

type StatementStatus string

const (
	StatementApplied    StatementStatus = "applied"
	StatementFailed     StatementStatus = "failed"
	StatementRolledBack StatementStatus = "rolled_back"
	StatementSkipped    StatementStatus = "skipped"
)

type StatementResult struct {
	SQL    string          `json:"sql"`
	Status StatementStatus `json:"status"`
	Error  string          `json:"error,omitempty"`
}

// ApplyResult reports every statement of a schema. Applied is true only
// when all of them committed.
type ApplyResult struct {
	SchemaID   uint              `json:"schemaId"`
	Applied    bool              `json:"applied"`
	Statements []StatementResult `json:"statements"`
}

// ApplySchema runs a stored schema's statements in one transaction. Nothing
// runs unless confirm is true.
func (s *Service) ApplySchema(ctx context.Context, userID uint, chatID string, schemaID uint, confirm bool) (*ApplyResult, error) {
	const op = "apply_schema"

	if !confirm {
		return nil, chat.NewValidationError(op, "confirmation is required to apply a schema")
	}
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.checkOwner(ctx, op, userID, chatID); err != nil {
		return nil, err
	}
	stored, err := s.store.GetSchema(ctx, chatID, schemaID)
	if err != nil {
		if errors.Is(err, schemarepo.ErrSchemaNotFound) {
			return nil, &chat.ChatError{Type: chat.ErrTypeNotFound, Operation: op, Message: "schema not found", ChatID: chatID, UserID: userID}
		}
		return nil, chat.NewPersistenceError(op, "could not load schema", chatID, err)
	}

	statements := chat.FormatSQLForStorage(stored.SQLStatement)
	if len(statements) == 0 {
		return nil, chat.NewValidationError(op, "schema has no statements")
	}

	ws, err := s.workspace(ctx, op, chatID)
	if err != nil {
		return nil, err
	}
	guard, err := s.ownedTablesGuard(ctx, op, chatID, schemaID)
	if err != nil {
		return nil, err
	}
	for i, stmt := range statements {
		if err := ws.checkScope(stmt); err != nil {
			return nil, chat.NewValidationError(op, fmt.Sprintf("statement %d: %v", i+1, err))
		}
		if err := guard.Check(stmt); err != nil {
			return nil, chat.NewValidationError(op, fmt.Sprintf("statement %d: %v", i+1, err))
		}
	}

	result := &ApplyResult{SchemaID: stored.ID, Statements: make([]StatementResult, len(statements))}
	for i, stmt := range statements {
		result.Statements[i] = StatementResult{SQL: stmt, Status: StatementSkipped}
	}

	txErr := ws.transaction(ctx, func(tx *gorm.DB) error {
		for i, stmt := range statements {
			if err := tx.Exec(stmt).Error; err != nil {
				result.Statements[i].Status = StatementFailed
				result.Statements[i].Error = err.Error()
				return err
			}
			result.Statements[i].Status = StatementApplied
		}
		return nil
	})

	if txErr != nil {
		for i := range result.Statements {
			if result.Statements[i].Status == StatementApplied {
				result.Statements[i].Status = StatementRolledBack
			}
		}
		s.logger.Warn("schema apply rolled back", "chat_id", chatID, "schema_id", schemaID, "error", txErr)
		return result, nil
	}

	result.Applied = true
	s.logger.Info("schema applied to sandbox", "chat_id", chatID, "schema_id", schemaID, "statements", len(statements))
	return result, nil
}

// ownedTablesGuard seeds a schemaGuard with the tables named by the chat's other
// stored schemas.
func (s *Service) ownedTablesGuard(ctx context.Context, op, chatID string, applying uint) (*schemaGuard, error) {
	schemas, err := s.store.GetSchemas(ctx, chatID)
	if err != nil {
		return nil, chat.NewPersistenceError(op, "could not load schemas", chatID, err)
	}
	var owned []string
	for _, sc := range schemas {
		if sc.ID == applying {
			continue
		}
		owned = append(owned, chat.ExtractAllTableNames(sc.SQLStatement)...)
	}
	return newSchemaGuard(owned), nil
}
