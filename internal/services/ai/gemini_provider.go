// File: internal/services/ai/gemini_provider.go
package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider generates replies with the Gemini API.
type GeminiProvider struct {
	config *Config
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context, config *Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, NewConfigError("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiProvider{config: config, client: client}, nil
}

// StartConversation seeds a transcript. Gemini contents only accept user and
// model roles, so system turns from history are appended to the instruction.
func (p *GeminiProvider) StartConversation(ctx context.Context, systemInstruction string, history []Turn) (Conversation, error) {
	var instruction strings.Builder
	instruction.WriteString(systemInstruction)

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		switch turn.Role {
		case RoleSystem:
			instruction.WriteString("\n\n")
			instruction.WriteString(turn.Text)
		case RoleModel:
			contents = append(contents, genai.NewContentFromText(turn.Text, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(turn.Text, genai.RoleUser))
		}
	}

	return &geminiConversation{
		provider:    p,
		instruction: instruction.String(),
		contents:    contents,
	}, nil
}

// geminiConversation keeps the running transcript. Not safe for concurrent use.
type geminiConversation struct {
	provider    *GeminiProvider
	instruction string
	contents    []*genai.Content
}

func (c *geminiConversation) SendMessage(ctx context.Context, text string) (string, error) {
	p := c.provider
	contents := append(c.contents, genai.NewContentFromText(text, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(p.config.Temperature),
		TopP:        genai.Ptr(p.config.TopP),
	}
	if c.instruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(c.instruction, genai.RoleUser)
	}

	reply, err := retry(ctx, p.config.Timeout, p.config.MaxRetries, p.config.RetryDelay, func(ctx context.Context) (string, error) {
		resp, err := p.client.Models.GenerateContent(ctx, p.config.Model, contents, cfg)
		if err != nil {
			return "", NewProviderError("generate_content", "Gemini request failed", err)
		}
		text := resp.Text()
		if strings.TrimSpace(text) == "" {
			return "", NewEmptyResponseError("generate_content", p.config.Model)
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}

	c.contents = append(contents, genai.NewContentFromText(reply, genai.RoleModel))
	return reply, nil
}
