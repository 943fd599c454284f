// File: internal/services/ai/errors.go
package ai

import (
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeTimeout    ErrorType = "TIMEOUT"
	ErrTypeEmpty      ErrorType = "EMPTY_RESPONSE"
	ErrTypeValidation ErrorType = "VALIDATION"
)

type AIError struct {
	Type      ErrorType
	Message   string
	Model     string
	Operation string
	Cause     error

	// StatusCode is the provider's HTTP status, when it reported one.
	StatusCode int
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AIError) Unwrap() error {
	return e.Cause
}

func NewConfigError(msg string) *AIError {
	return &AIError{Type: ErrTypeConfig, Message: msg, Operation: "config"}
}

func NewProviderError(operation, msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeProvider, Operation: operation, Message: msg, StatusCode: providerStatus(cause), Cause: cause}
}

// providerStatus extracts the HTTP status from a go-openai or genai error.
func providerStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return genaiErr.Code
	}
	return 0
}

// Retryable reports whether resending the same request could succeed.
// Empty replies and client errors, including 429 quota errors, are final.
func Retryable(err error) bool {
	var aiErr *AIError
	if !errors.As(err, &aiErr) {
		return true
	}
	if aiErr.Type == ErrTypeEmpty || aiErr.Type == ErrTypeConfig {
		return false
	}
	return aiErr.StatusCode < 400 || aiErr.StatusCode >= 500
}

func NewEmptyResponseError(operation, model string) *AIError {
	return &AIError{Type: ErrTypeEmpty, Operation: operation, Model: model, Message: "model returned no text"}
}

// IsType reports whether err is an *AIError of the given type.
func IsType(err error, t ErrorType) bool {
	var aiErr *AIError
	return errors.As(err, &aiErr) && aiErr.Type == t
}
