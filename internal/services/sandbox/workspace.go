// File: internal/services/sandbox/workspace.go
package sandbox

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/iyunix/go-sqlchat/internal/repository"
)

// DefaultIdleTTL is how long an unused chat workspace stays open.
const DefaultIdleTTL = time.Hour

// Workspace is one chat's slice of the sandbox. Enter, when set, runs first
// in every transaction opened on DB.
type Workspace struct {
	DB    *gorm.DB
	Scope string
	Enter func(tx *gorm.DB) error
}

// Workspaces hands out an isolated Workspace per chat. No chat can reach
// another chat's tables through its workspace.
type Workspaces interface {
	Acquire(ctx context.Context, chatID string) (*Workspace, error)
	Close() error
}

// scopeName derives the per-chat scope from a chat id. Only uuids are
// accepted so the name is safe to splice into a path or identifier.
func scopeName(chatID string) (string, error) {
	id, err := uuid.Parse(chatID)
	if err != nil {
		return "", fmt.Errorf("invalid chat id %q", chatID)
	}
	return "chat_" + strings.ReplaceAll(id.String(), "-", ""), nil
}

var scopeReference = regexp.MustCompile(`(?i)\bchat_[0-9a-f]{32}\b`)

// checkScope rejects statements naming any sandbox scope other than ws's own.
func (ws *Workspace) checkScope(stmt string) error {
	for _, ref := range scopeReference.FindAllString(stmt, -1) {
		if !strings.EqualFold(ref, ws.Scope) {
			return fmt.Errorf("statement references another chat's sandbox")
		}
	}
	return nil
}

func (ws *Workspace) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return ws.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ws.Enter != nil {
			if err := ws.Enter(tx); err != nil {
				return err
			}
		}
		return fn(tx)
	})
}

// SQLiteWorkspaces gives every chat its own SQLite database: a file under
// dir, or a private in-memory database when dir is ":memory:". Idle
// databases are closed after ttl; in-memory ones are discarded with them.
type SQLiteWorkspaces struct {
	dir  string
	mu   sync.Mutex
	open *cache.Cache
}

func NewSQLiteWorkspaces(dir string, ttl time.Duration) *SQLiteWorkspaces {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	open := cache.New(ttl, ttl)
	open.OnEvicted(func(_ string, v interface{}) {
		closeDB(v.(*gorm.DB))
	})
	return &SQLiteWorkspaces{dir: dir, open: open}
}

func (w *SQLiteWorkspaces) Acquire(_ context.Context, chatID string) (*Workspace, error) {
	scope, err := scopeName(chatID)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if v, ok := w.open.Get(scope); ok {
		db := v.(*gorm.DB)
		w.open.Set(scope, db, cache.DefaultExpiration)
		return &Workspace{DB: db, Scope: scope}, nil
	}

	dsn := ":memory:"
	if w.dir != ":memory:" {
		dsn = filepath.Join(w.dir, scope+".db")
	}
	db, err := repository.Open("sqlite", dsn, false)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// One connection per chat keeps an in-memory database alive and
	// serializes writes to a file.
	sqlDB.SetMaxOpenConns(1)

	w.open.Set(scope, db, cache.DefaultExpiration)
	return &Workspace{DB: db, Scope: scope}, nil
}

// Close closes every open chat database.
func (w *SQLiteWorkspaces) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for scope := range w.open.Items() {
		w.open.Delete(scope)
	}
	return nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// PostgresWorkspaces shares one database and gives every chat its own
// schema, selected with SET LOCAL search_path inside each transaction.
type PostgresWorkspaces struct {
	db *gorm.DB
}

func NewPostgresWorkspaces(db *gorm.DB) *PostgresWorkspaces {
	return &PostgresWorkspaces{db: db}
}

func (p *PostgresWorkspaces) Acquire(_ context.Context, chatID string) (*Workspace, error) {
	scope, err := scopeName(chatID)
	if err != nil {
		return nil, err
	}
	quoted := `"` + scope + `"`
	return &Workspace{
		DB:    p.db,
		Scope: scope,
		Enter: func(tx *gorm.DB) error {
			if err := tx.Exec("CREATE SCHEMA IF NOT EXISTS " + quoted).Error; err != nil {
				return err
			}
			return tx.Exec("SET LOCAL search_path TO " + quoted).Error
		},
	}, nil
}

func (p *PostgresWorkspaces) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
