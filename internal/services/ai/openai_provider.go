// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to any OpenAI-compatible chat completion endpoint.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (p *OpenAIProvider) StartConversation(ctx context.Context, systemInstruction string, history []Turn) (Conversation, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	if systemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemInstruction})
	}
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: openAIRole(turn.Role), Content: turn.Text})
	}
	return &openAIConversation{provider: p, messages: messages}, nil
}

// openAIConversation keeps the running transcript. Not safe for concurrent use.
type openAIConversation struct {
	provider *OpenAIProvider
	messages []openai.ChatCompletionMessage
}

func (c *openAIConversation) SendMessage(ctx context.Context, text string) (string, error) {
	p := c.provider
	messages := append(c.messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: text})

	reply, err := retry(ctx, p.config.Timeout, p.config.MaxRetries, p.config.RetryDelay, func(ctx context.Context) (string, error) {
		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       p.config.Model,
			Messages:    messages,
			Temperature: p.config.Temperature,
			TopP:        p.config.TopP,
		})
		if err != nil {
			return "", NewProviderError("completion", "failed to create completion", err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return "", NewEmptyResponseError("completion", p.config.Model)
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", err
	}

	c.messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply})
	return reply, nil
}

func openAIRole(r Role) string {
	switch r {
	case RoleModel:
		return openai.ChatMessageRoleAssistant
	case RoleSystem:
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}
