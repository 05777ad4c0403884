package llm

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// NewOpenAIFactory returns a Factory producing clients for any
// OpenAI-compatible chat-completion endpoint, including Gemini's
// compatibility surface.
func NewOpenAIFactory(opts Options) Factory {
	return func(apiKey string) Client {
		cfg := openai.DefaultConfig(apiKey)
		if opts.BaseURL != "" {
			cfg.BaseURL = opts.BaseURL
		}

		if opts.Timeout > 0 {
			cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}
		}

		return &openAIClient{
			client:      openai.NewClientWithConfig(cfg),
			model:       opts.Model,
			temperature: opts.Temperature,
		}
	}
}

type openAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

func (c *openAIClient) Generate(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
	}

	req.Messages = make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}
