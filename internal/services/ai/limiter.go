// File: internal/services/ai/limiter.go
package ai

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// LimitedGateway caps the number of generations in flight across all chats.
type LimitedGateway struct {
	next Gateway
	sem  *semaphore.Weighted
}

func NewLimitedGateway(next Gateway, maxConcurrent int64) *LimitedGateway {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &LimitedGateway{next: next, sem: semaphore.NewWeighted(maxConcurrent)}
}

func (g *LimitedGateway) StartConversation(ctx context.Context, systemInstruction string, history []Turn) (Conversation, error) {
	conv, err := g.next.StartConversation(ctx, systemInstruction, history)
	if err != nil {
		return nil, err
	}
	return &limitedConversation{next: conv, sem: g.sem}, nil
}

type limitedConversation struct {
	next Conversation
	sem  *semaphore.Weighted
}

func (c *limitedConversation) SendMessage(ctx context.Context, text string) (string, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", &AIError{Type: ErrTypeTimeout, Operation: "acquire", Message: "waiting for a free generation slot", Cause: err}
	}
	defer c.sem.Release(1)
	return c.next.SendMessage(ctx, text)
}
