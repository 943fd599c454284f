// File: internal/services/chat/errors.go
package chat

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeConfig      ErrorType = "CONFIG"
	ErrTypeValidation  ErrorType = "VALIDATION"
	ErrTypeNotFound    ErrorType = "NOT_FOUND"
	ErrTypeGeneration  ErrorType = "GENERATION"
	ErrTypePersistence ErrorType = "PERSISTENCE"
)

// ErrUnknownIntent is returned when a prompt is requested for an intent
// outside the closed set.
var ErrUnknownIntent = errors.New("unknown intent")

type ChatError struct {
	Type      ErrorType
	Operation string
	Message   string
	ChatID    string
	UserID    uint
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error {
	return e.Cause
}

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewNotFoundError(operation string, userID uint, chatID string) *ChatError {
	return &ChatError{
		Type:      ErrTypeNotFound,
		Operation: operation,
		Message:   "chat not found",
		UserID:    userID,
		ChatID:    chatID,
	}
}

func NewGenerationError(operation, msg, chatID string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeGeneration, Operation: operation, Message: msg, ChatID: chatID, Cause: cause}
}

func NewPersistenceError(operation, msg, chatID string, cause error) *ChatError {
	return &ChatError{Type: ErrTypePersistence, Operation: operation, Message: msg, ChatID: chatID, Cause: cause}
}

// ErrorTypeOf returns the ChatError type in err's chain, or "" if there is none.
func ErrorTypeOf(err error) ErrorType {
	var chatErr *ChatError
	if errors.As(err, &chatErr) {
		return chatErr.Type
	}
	return ""
}

// PublicMessage is the text safe to show a client for err.
func PublicMessage(err error) string {
	var chatErr *ChatError
	if errors.As(err, &chatErr) {
		return chatErr.Message
	}
	return "internal error"
}

func IsValidation(err error) bool { return ErrorTypeOf(err) == ErrTypeValidation }
func IsNotFound(err error) bool   { return ErrorTypeOf(err) == ErrTypeNotFound }
func IsGeneration(err error) bool { return ErrorTypeOf(err) == ErrTypeGeneration }
