package llm

import (
	"context"
	"errors"
	"time"
)

var ErrNoChoices = errors.New("chat completion returned no choices")

// Message is a single chat-completion message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Client generates a completion for an ordered list of messages.
type Client interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// Factory builds a Client bound to an API key. Keys arrive at runtime, one
// per session, so clients cannot be constructed at startup.
type Factory func(apiKey string) Client

type Options struct {
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}
