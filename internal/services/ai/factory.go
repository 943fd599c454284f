// File: internal/services/ai/factory.go
package ai

import (
	"context"
	"strings"
)

// NewGateway builds the configured provider wrapped in a concurrency limiter.
func NewGateway(ctx context.Context, config *Config) (Gateway, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	var provider Gateway
	switch strings.ToLower(config.Provider) {
	case ProviderOpenAI:
		provider = NewOpenAIProvider(config)
	default:
		gemini, err := NewGeminiProvider(ctx, config)
		if err != nil {
			return nil, err
		}
		provider = gemini
	}
	return NewLimitedGateway(provider, config.MaxConcurrency), nil
}
