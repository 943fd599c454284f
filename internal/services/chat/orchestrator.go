// File: internal/services/chat/orchestrator.go
package chat

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/iyunix/go-sqlchat/internal/domain"
	chatrepo "github.com/iyunix/go-sqlchat/internal/repository/chat"
)

const (
	schemaFallbackMessage = "Could not generate schema. Please provide more details."
	queryFallbackMessage  = "Could not generate query. Please check your request."
	generationFailMessage = "AI failed to generate a response. Please try again."
)

// SendMessage runs one user turn: load the chat context, classify, prompt
// the model, then store the user message, any SQL artifact, the reply and,
// on a chat's first message, its title. Calls for the same chat are
// serialized.
func (s *Service) SendMessage(ctx context.Context, userID uint, chatID, text string) (*MessageReply, error) {
	const op = "send_message"

	text = strings.TrimSpace(text)
	chatID = strings.TrimSpace(chatID)
	if text == "" {
		return nil, NewValidationError(op, "message is required")
	}
	if chatID == "" {
		return nil, NewValidationError(op, "sessionId is required")
	}
	if utf8.RuneCountInString(text) > s.config.MaxMessageLength {
		return nil, NewValidationError(op, "message is too long")
	}

	unlock := s.locks.Lock(chatID)
	defer unlock()

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	if _, err := s.getOwnedSession(ctx, op, userID, chatID); err != nil {
		return nil, err
	}

	cc, err := s.loadContext(ctx, chatID)
	if err != nil {
		return nil, err
	}
	firstMessage := len(cc.Messages) == 0

	intent := Classify(text, cc)
	s.logger.Info("processing chat message",
		"chat_id", chatID,
		"user_id", userID,
		"intent", intent.String(),
		"schemas", len(cc.Schemas),
		"queries", len(cc.Queries),
		"history", len(cc.Messages))

	instruction, err := BuildInstruction(cc, intent)
	if err != nil {
		return nil, &ChatError{Type: ErrTypeConfig, Operation: op, Message: "could not build prompt", ChatID: chatID, Cause: err}
	}

	raw, err := s.generate(ctx, instruction, cc, text)
	cleaned := CleanResponse(raw)
	parsed := ParseResponse(cleaned)
	if err != nil || parsed == nil {
		s.logger.Error("generation failed", "chat_id", chatID, "intent", intent.String(), "error", err)
		s.recordFailedTurn(ctx, chatID, userID, text, firstMessage)
		return nil, NewGenerationError(op, generationFailMessage, chatID, err)
	}

	if _, err := s.store.AppendMessage(ctx, chatID, domain.RoleUser, text); err != nil {
		return nil, NewPersistenceError(op, "could not save message", chatID, err)
	}

	reply, err := s.persistArtifact(ctx, chatID, text, intent, parsed)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.AppendMessage(ctx, chatID, domain.RoleAssistant, cleaned); err != nil {
		return nil, NewPersistenceError(op, "could not save reply", chatID, err)
	}

	if firstMessage {
		s.autoTitle(ctx, chatID, userID, text)
	}

	s.renderHTML(reply)
	s.logger.Info("chat message processed", "chat_id", chatID, "intent", intent.String(), "type", string(reply.Type), "has_sql", reply.HasSQL)
	return reply, nil
}

func (s *Service) generate(ctx context.Context, instruction string, cc *ChatContext, text string) (string, error) {
	conv, err := s.gateway.StartConversation(ctx, instruction, BuildHistory(cc.Messages))
	if err != nil {
		return "", err
	}
	return conv.SendMessage(ctx, text)
}

// loadContext reads all schemas plus the configured window of recent queries
// and messages, each oldest first.
func (s *Service) loadContext(ctx context.Context, chatID string) (*ChatContext, error) {
	const op = "load_context"

	schemas, err := s.store.GetSchemas(ctx, chatID)
	if err != nil {
		return nil, NewPersistenceError(op, "could not load schemas", chatID, err)
	}
	queries, err := s.store.GetRecentQueries(ctx, chatID, s.config.RecentQueryLimit)
	if err != nil {
		return nil, NewPersistenceError(op, "could not load queries", chatID, err)
	}
	messages, err := s.store.GetRecentMessages(ctx, chatID, s.config.RecentMessageLimit)
	if err != nil {
		return nil, NewPersistenceError(op, "could not load messages", chatID, err)
	}
	return &ChatContext{Schemas: schemas, Queries: queries, Messages: messages}, nil
}

// persistArtifact stores the schema or query carried by the reply, if it
// is long enough to be real SQL, and shapes the client reply.
func (s *Service) persistArtifact(ctx context.Context, chatID, text string, intent Intent, parsed *ParsedResponse) (*MessageReply, error) {
	const op = "persist_artifact"

	reply := &MessageReply{
		Success:   true,
		SessionID: chatID,
		Intent:    intent,
		Type:      ReplyConversation,
		Message:   parsed.Text,
		HasSQL:    parsed.HasSQL,
	}
	if reply.Message == "" {
		reply.Message = parsed.SQL
	}

	switch {
	case intent.ProducesSchema():
		formatted := FormatSQLForStorage(parsed.SQL)
		if !parsed.HasSQL || len(parsed.SQL) <= s.config.MinSchemaSQLLength || len(formatted) == 0 {
			markError(reply, parsed, schemaFallbackMessage)
			return reply, nil
		}
		allTables := s.tables.AllTables(parsed.SQL)
		primary := domain.UnknownTable
		if len(allTables) > 0 {
			primary = allTables[0]
		}
		saved, err := s.store.AppendSchema(ctx, chatID, primary, formatted.String(), text)
		if err != nil {
			return nil, NewPersistenceError(op, "could not save schema", chatID, err)
		}
		reply.Type = ReplySchema
		reply.SQL = formatted
		reply.TableName = primary
		reply.AllTables = allTables
		reply.SchemaID = saved.ID

	case intent.ProducesSQL():
		formatted := FormatSQLForStorage(parsed.SQL)
		if !parsed.HasSQL || len(parsed.SQL) <= s.config.MinQuerySQLLength || len(formatted) == 0 {
			markError(reply, parsed, queryFallbackMessage)
			return reply, nil
		}
		saved, err := s.store.AppendQuery(ctx, chatID, text, formatted.First())
		if err != nil {
			return nil, NewPersistenceError(op, "could not save query", chatID, err)
		}
		reply.Type = ReplyQuery
		reply.SQL = formatted
		reply.QueryID = saved.ID

	default:
		reply.HasSQL = false
	}
	return reply, nil
}

func markError(reply *MessageReply, parsed *ParsedResponse, fallback string) {
	reply.Type = ReplyError
	reply.HasSQL = false
	reply.Message = parsed.Text
	if reply.Message == "" {
		reply.Message = fallback
	}
}

// recordFailedTurn keeps the user's message when generation fails so the
// conversation is not lost. Failures here are only logged.
func (s *Service) recordFailedTurn(ctx context.Context, chatID string, userID uint, text string, firstMessage bool) {
	if _, err := s.store.AppendMessage(ctx, chatID, domain.RoleUser, text); err != nil {
		s.logger.Warn("could not save message after failed generation", "chat_id", chatID, "error", err)
		return
	}
	if firstMessage {
		s.autoTitle(ctx, chatID, userID, text)
	}
}

func (s *Service) autoTitle(ctx context.Context, chatID string, userID uint, text string) {
	title := TitleFromMessage(text, s.config.TitleMaxLength)
	if err := s.store.SetSessionTitle(ctx, chatID, userID, title); err != nil {
		s.logger.Warn("auto title failed", "chat_id", chatID, "error", err)
	}
}

func (s *Service) renderHTML(reply *MessageReply) {
	if s.renderer == nil || reply.Message == "" {
		return
	}
	html, err := s.renderer.Render(reply.Message)
	if err != nil {
		s.logger.Warn("markdown render failed", "chat_id", reply.SessionID, "error", err)
		return
	}
	reply.MessageHTML = html
}

// getOwnedSession maps a missing or foreign chat to NotFound.
func (s *Service) getOwnedSession(ctx context.Context, op string, userID uint, chatID string) (*domain.Chat, error) {
	if userID == 0 {
		return nil, NewValidationError(op, "user is required")
	}
	session, err := s.store.GetSession(ctx, chatID, userID)
	if err != nil {
		if errors.Is(err, chatrepo.ErrChatNotFound) {
			return nil, NewNotFoundError(op, userID, chatID)
		}
		return nil, NewPersistenceError(op, "could not load chat", chatID, err)
	}
	return session, nil
}
