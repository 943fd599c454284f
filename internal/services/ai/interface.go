// File: internal/services/ai/interface.go
package ai

import "context"

// Role is the speaker of a history turn as the model sees it.
type Role string

const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

// Turn is one prior message replayed to the model.
type Turn struct {
	Role Role
	Text string
}

// Conversation is a model session seeded with an instruction and history.
type Conversation interface {
	SendMessage(ctx context.Context, text string) (string, error)
}

// Gateway opens conversations with a generative model.
type Gateway interface {
	StartConversation(ctx context.Context, systemInstruction string, history []Turn) (Conversation, error)
}
