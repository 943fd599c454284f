// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Provider string // gemini or openai
	APIKey   string
	BaseURL  string // openai-compatible endpoints only
	Model    string

	Timeout        time.Duration
	MaxRetries     int // extra attempts after a failure; 0 means none
	RetryDelay     time.Duration
	MaxConcurrency int64 // concurrent in-flight generations across all chats

	Temperature float32
	TopP        float32
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported AI provider %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("AI_API_KEY is required")
	}
	if c.Model == "" {
		return fmt.Errorf("AI_MODEL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max concurrency must be at least 1")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderGemini,
		Model:          "gemini-2.5-flash",
		Timeout:        60 * time.Second,
		MaxRetries:     0,
		RetryDelay:     2 * time.Second,
		MaxConcurrency: 8,
		Temperature:    0.2,
		TopP:           0.9,
	}
}
