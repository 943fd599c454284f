// File: internal/services/sandbox/sandbox.go
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/iyunix/go-sqlchat/internal/domain"
	"github.com/iyunix/go-sqlchat/internal/repository"
	chatrepo "github.com/iyunix/go-sqlchat/internal/repository/chat"
	"github.com/iyunix/go-sqlchat/internal/services/chat"
)

// ErrDisabled is returned when no sandbox database is configured.
var ErrDisabled = errors.New("sandbox execution is disabled")

type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Store is the slice of the chat store the sandbox needs.
type Store interface {
	GetSession(ctx context.Context, chatID string, userID uint) (*domain.Chat, error)
	GetSchema(ctx context.Context, chatID string, schemaID uint) (*domain.Schema, error)
	GetSchemas(ctx context.Context, chatID string) ([]domain.Schema, error)
	GetQuery(ctx context.Context, chatID string, queryID uint) (*domain.Query, error)
	RecordQueryExecution(ctx context.Context, queryID uint, result datatypes.JSON) error
}

// Config selects the sandbox backend. For sqlite, DSN is a directory that
// holds one database file per chat, or ":memory:". For postgres it is a
// connection string; each chat gets its own schema.
type Config struct {
	Driver  string
	DSN     string
	MaxRows int
	Timeout time.Duration
	IdleTTL time.Duration
}

// Service runs generated SQL against a scratch database, never the
// application database. Every chat works in its own isolated workspace and
// DDL only runs when the caller confirms it.
type Service struct {
	spaces  Workspaces
	store   Store
	maxRows int
	timeout time.Duration
	logger  Logger
}

// Open connects to the configured sandbox. An empty DSN yields a disabled
// service whose operations return ErrDisabled.
func Open(cfg Config, store Store, logger Logger) (*Service, error) {
	if cfg.DSN == "" {
		logger.Info("sandbox disabled: no DSN configured")
		return New(nil, store, cfg.MaxRows, cfg.Timeout, logger), nil
	}

	var spaces Workspaces
	switch strings.ToLower(cfg.Driver) {
	case "sqlite", "":
		spaces = NewSQLiteWorkspaces(cfg.DSN, cfg.IdleTTL)
	case "postgres", "postgresql":
		db, err := repository.Open(cfg.Driver, cfg.DSN, false)
		if err != nil {
			return nil, err
		}
		spaces = NewPostgresWorkspaces(db)
	default:
		return nil, fmt.Errorf("unsupported sandbox driver %q", cfg.Driver)
	}
	logger.Info("sandbox enabled", "driver", cfg.Driver)
	return New(spaces, store, cfg.MaxRows, cfg.Timeout, logger), nil
}

// New builds a service over spaces. A nil spaces disables execution.
func New(spaces Workspaces, store Store, maxRows int, timeout time.Duration, logger Logger) *Service {
	if maxRows < 1 {
		maxRows = 100
	}
	return &Service{spaces: spaces, store: store, maxRows: maxRows, timeout: timeout, logger: logger}
}

func (s *Service) Enabled() bool {
	return s.spaces != nil
}

// Close releases every open workspace.
func (s *Service) Close() error {
	if s.spaces == nil {
		return nil
	}
	return s.spaces.Close()
}

func (s *Service) workspace(ctx context.Context, op, chatID string) (*Workspace, error) {
	ws, err := s.spaces.Acquire(ctx, chatID)
	if err != nil {
		return nil, chat.NewPersistenceError(op, "could not open sandbox workspace", chatID, err)
	}
	return ws, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func (s *Service) checkOwner(ctx context.Context, op string, userID uint, chatID string) error {
	if userID == 0 {
		return chat.NewValidationError(op, "user is required")
	}
	if _, err := s.store.GetSession(ctx, chatID, userID); err != nil {
		if errors.Is(err, chatrepo.ErrChatNotFound) {
			return chat.NewNotFoundError(op, userID, chatID)
		}
		return chat.NewPersistenceError(op, "could not load chat", chatID, err)
	}
	return nil
}
