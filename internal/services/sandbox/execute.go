// File: internal/services/sandbox/execute.go
package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	queryrepo "github.com/iyunix/go-sqlchat/internal/repository/query"
	"github.com/iyunix/go-sqlchat/internal/services/chat"
)

var (
	readOnlyStart = regexp.MustCompile(`(?i)^\s*(SELECT|WITH)\b`)
	writeKeywords = regexp.MustCompile(`(?i)\b(INSERT|UPDATE|DELETE|MERGE|UPSERT|REPLACE|DROP|ALTER|CREATE|TRUNCATE|RENAME|GRANT|REVOKE|ATTACH|DETACH|PRAGMA|VACUUM|CALL|EXEC|EXECUTE|COPY|LOCK|INTO)\b`)
)

// QueryResult is what a read-only execution returned, capped at the
// configured row limit.
type QueryResult struct {
	QueryID   uint            `json:"queryId"`
	Columns   []string        `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	RowCount  int             `json:"rowCount"`
	Truncated bool            `json:"truncated"`
}

// CheckReadOnly accepts a single statement starting with SELECT or WITH and
// containing no data-modifying keyword. It is a keyword heuristic.
func CheckReadOnly(sql string) (string, error) {
	statements := chat.FormatSQLForStorage(sql)
	if len(statements) != 1 {
		return "", errors.New("exactly one statement can be executed")
	}
	stmt := statements[0]
	if !readOnlyStart.MatchString(stmt) {
		return "", errors.New("only SELECT queries can be executed")
	}
	if kw := writeKeywords.FindString(stmt); kw != "" {
		return "", errors.New("query contains a data-modifying keyword: " + strings.ToUpper(kw))
	}
	return stmt, nil
}

// ExecuteQuery runs a stored query read-only against the sandbox and records
// the result on the query.
func (s *Service) ExecuteQuery(ctx context.Context, userID uint, chatID string, queryID uint) (*QueryResult, error) {
	const op = "execute_query"

	if !s.Enabled() {
		return nil, ErrDisabled
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.checkOwner(ctx, op, userID, chatID); err != nil {
		return nil, err
	}
	stored, err := s.store.GetQuery(ctx, chatID, queryID)
	if err != nil {
		if errors.Is(err, queryrepo.ErrQueryNotFound) {
			return nil, &chat.ChatError{Type: chat.ErrTypeNotFound, Operation: op, Message: "query not found", ChatID: chatID, UserID: userID}
		}
		return nil, chat.NewPersistenceError(op, "could not load query", chatID, err)
	}

	stmt, err := CheckReadOnly(stored.GeneratedSQL)
	if err != nil {
		return nil, chat.NewValidationError(op, err.Error())
	}
	ws, err := s.workspace(ctx, op, chatID)
	if err != nil {
		return nil, err
	}
	if err := ws.checkScope(stmt); err != nil {
		return nil, chat.NewValidationError(op, err.Error())
	}

	result, err := s.run(ctx, ws, stmt)
	if err != nil {
		s.logger.Warn("sandbox query failed", "chat_id", chatID, "query_id", queryID, "error", err)
		return nil, chat.NewValidationError(op, "query failed: "+err.Error())
	}
	result.QueryID = stored.ID

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, chat.NewPersistenceError(op, "could not encode result", chatID, err)
	}
	if err := s.store.RecordQueryExecution(ctx, stored.ID, datatypes.JSON(payload)); err != nil {
		return nil, chat.NewPersistenceError(op, "could not save result", chatID, err)
	}

	s.logger.Info("sandbox query executed", "chat_id", chatID, "query_id", queryID, "rows", result.RowCount, "truncated", result.Truncated)
	return result, nil
}

// errReadOnly aborts the transaction run opens so it is always rolled back.
var errReadOnly = errors.New("read-only transaction")

// run executes stmt in ws inside a transaction that is always rolled back.
func (s *Service) run(ctx context.Context, ws *Workspace, stmt string) (*QueryResult, error) {
	var result *QueryResult
	err := ws.transaction(ctx, func(tx *gorm.DB) error {
		r, err := s.collect(tx, stmt)
		if err != nil {
			return err
		}
		result = r
		return errReadOnly
	})
	if !errors.Is(err, errReadOnly) {
		return nil, err
	}
	return result, nil
}

func (s *Service) collect(tx *gorm.DB, stmt string) (*QueryResult, error) {
	rows, err := tx.Raw(stmt).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &QueryResult{Columns: columns, Rows: [][]interface{}{}}
	for rows.Next() {
		if len(result.Rows) == s.maxRows {
			result.Truncated = true
			break
		}
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result.RowCount = len(result.Rows)
	return result, nil
}
