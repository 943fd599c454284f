package chat

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iyunix/go-sqlchat/internal/domain"
	chatrepo "github.com/iyunix/go-sqlchat/internal/repository/chat"
	"github.com/iyunix/go-sqlchat/internal/services/ai"
)

type memStore struct {
	mu       sync.Mutex
	nextID   uint
	chats    map[string]*domain.Chat
	messages map[string][]domain.Message
	schemas  map[string][]domain.Schema
	queries  map[string][]domain.Query
	failOn   string
}

func newMemStore() *memStore {
	return &memStore{
		chats:    make(map[string]*domain.Chat),
		messages: make(map[string][]domain.Message),
		schemas:  make(map[string][]domain.Schema),
		queries:  make(map[string][]domain.Query),
	}
}

var errStoreDown = errors.New("store down")

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateSession(_ context.Context, userID uint, title string) (*domain.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if title == "" {
		title = domain.DefaultChatTitle
	}
	c := &domain.Chat{ID: "chat-" + strconv.Itoa(int(m.id())), UserID: userID, Title: title, IsActive: true, UpdatedAt: time.Now()}
	m.chats[c.ID] = c
	copied := *c
	return &copied, nil
}

func (m *memStore) GetSession(_ context.Context, chatID string, userID uint) (*domain.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chats[chatID]
	if !ok || c.UserID != userID || !c.IsActive {
		return nil, chatrepo.ErrChatNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *memStore) ListSessions(_ context.Context, userID uint) ([]domain.ChatSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ChatSummary
	for _, c := range m.chats {
		if c.UserID == userID && c.IsActive {
			out = append(out, domain.ChatSummary{
				Chat:         *c,
				MessageCount: int64(len(m.messages[c.ID])),
				SchemaCount:  int64(len(m.schemas[c.ID])),
			})
		}
	}
	return out, nil
}

func (m *memStore) SetSessionTitle(_ context.Context, chatID string, userID uint, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chats[chatID]
	if !ok || c.UserID != userID {
		return chatrepo.ErrChatNotFound
	}
	c.Title = title
	return nil
}

func (m *memStore) DeactivateSession(_ context.Context, chatID string, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chats[chatID]
	if !ok || c.UserID != userID {
		return chatrepo.ErrChatNotFound
	}
	c.IsActive = false
	return nil
}

func (m *memStore) GetSchemas(_ context.Context, chatID string) ([]domain.Schema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Schema(nil), m.schemas[chatID]...), nil
}

func (m *memStore) GetRecentQueries(_ context.Context, chatID string, limit int) ([]domain.Query, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.queries[chatID]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return append([]domain.Query(nil), all...), nil
}

func (m *memStore) GetRecentMessages(_ context.Context, chatID string, limit int) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.messages[chatID]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return append([]domain.Message(nil), all...), nil
}

func (m *memStore) GetMessages(_ context.Context, chatID string) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Message(nil), m.messages[chatID]...), nil
}

func (m *memStore) AppendMessage(_ context.Context, chatID string, role domain.MessageRole, content string) (*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "message" {
		return nil, errStoreDown
	}
	msg := domain.Message{ID: m.id(), ChatID: chatID, Role: role, Content: content}
	m.messages[chatID] = append(m.messages[chatID], msg)
	return &msg, nil
}

func (m *memStore) AppendSchema(_ context.Context, chatID, table, sql, description string) (*domain.Schema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "schema" {
		return nil, errStoreDown
	}
	s := domain.Schema{ID: m.id(), ChatID: chatID, Table: table, SQLStatement: sql, Description: description}
	m.schemas[chatID] = append(m.schemas[chatID], s)
	return &s, nil
}

func (m *memStore) AppendQuery(_ context.Context, chatID, naturalLanguage, sql string) (*domain.Query, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := domain.Query{ID: m.id(), ChatID: chatID, NaturalLanguage: naturalLanguage, GeneratedSQL: sql}
	m.queries[chatID] = append(m.queries[chatID], q)
	return &q, nil
}

func (m *memStore) title(chatID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chats[chatID].Title
}

// scriptedGateway answers every message with reply (or err) and records
// what it was asked.
type scriptedGateway struct {
	mu           sync.Mutex
	reply        string
	err          error
	delay        time.Duration
	instructions []string
	histories    [][]ai.Turn

	inFlight    int32
	maxInFlight int32
}

func (g *scriptedGateway) StartConversation(_ context.Context, instruction string, history []ai.Turn) (ai.Conversation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.instructions = append(g.instructions, instruction)
	g.histories = append(g.histories, history)
	return g, nil
}

func (g *scriptedGateway) SendMessage(ctx context.Context, _ string) (string, error) {
	n := atomic.AddInt32(&g.inFlight, 1)
	defer atomic.AddInt32(&g.inFlight, -1)
	for {
		cur := atomic.LoadInt32(&g.maxInFlight)
		if n <= cur || atomic.CompareAndSwapInt32(&g.maxInFlight, cur, n) {
			break
		}
	}
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reply, g.err
}

func (g *scriptedGateway) lastInstruction() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.instructions) == 0 {
		return ""
	}
	return g.instructions[len(g.instructions)-1]
}

type silentLogger struct{}

func (silentLogger) Info(string, ...interface{})  {}
func (silentLogger) Error(string, ...interface{}) {}
func (silentLogger) Debug(string, ...interface{}) {}
func (silentLogger) Warn(string, ...interface{})  {}
