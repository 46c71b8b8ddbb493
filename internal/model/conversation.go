package model

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTurn creates a turn with a fresh ID and timestamp.
func NewTurn(role Role, content string) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// Conversation is an ordered chat history. The pipeline only reads the
// most recent human turn, but callers may supply full histories.
type Conversation struct {
	ID    string `json:"id"`
	Turns []Turn `json:"turns"`
}

// NewConversation normalizes raw strings into human turns.
func NewConversation(messages ...string) Conversation {
	conv := Conversation{ID: uuid.NewString()}
	for _, msg := range messages {
		conv.Turns = append(conv.Turns, NewTurn(RoleHuman, msg))
	}
	return conv
}

// Append adds a turn and returns the conversation for chaining.
func (c *Conversation) Append(turn Turn) *Conversation {
	c.Turns = append(c.Turns, turn)
	return c
}

// LatestUserContent returns the content of the most recent human turn,
// or "" when the conversation has none.
func (c *Conversation) LatestUserContent() string {
	for i := len(c.Turns) - 1; i >= 0; i-- {
		if c.Turns[i].Role == RoleHuman {
			return c.Turns[i].Content
		}
	}
	return ""
}
