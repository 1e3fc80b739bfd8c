// Package llm wraps the OpenAI chat completion API behind the narrow
// interface the ask pipeline needs. Retrieval must work with no provider
// configured, so callers treat a nil *Client as "no answer available".
package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lexwatch/lexwatch/internal/domain"
)

// DefaultModel is the completion model used when none is configured.
const DefaultModel = "gpt-4o-mini"

// ErrNoContent is returned when the provider returns no choices
var ErrNoContent = errors.New("no completion content returned")

// CompletionAPI defines the interface for chat completions
type CompletionAPI interface {
	CreateChatCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

// Client produces grounded answers from a conversation plus an assembled
// context block.
type Client struct {
	api   CompletionAPI
	model string
}

type OpenAIAdapter struct {
	client *openai.Client
	model  string
}

func NewOpenAIAdapter(apiKey, model string) *OpenAIAdapter {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIAdapter{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// CreateChatCompletion calls the OpenAI API and extracts the first choice.
func (a *OpenAIAdapter) CreateChatCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.2,
		Messages:    messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoContent
	}
	return resp.Choices[0].Message.Content, nil
}

type Config struct {
	APIKey string
	Model  string
}

// NewClientWithConfig creates a new completion client with explicit
// configuration.
func NewClientWithConfig(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		api:   NewOpenAIAdapter(cfg.APIKey, model),
		model: model,
	}
}

// Answer sends the system directive, the prior turns (excluding any prior
// system turns), and one final user turn combining the question with the
// context block, and returns the provider's answer text.
func (c *Client) Answer(ctx context.Context, systemPrompt string, history []domain.Message, question, contextBlock string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})

	for _, m := range history {
		switch m.Role {
		case domain.RoleUser:
			messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: m.Content})
		case domain.RoleAssistant:
			messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: m.Content})
		}
	}

	final := question
	if contextBlock != "" {
		final = fmt.Sprintf("%s\n\nSources:\n%s", question, contextBlock)
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: final,
	})

	answer, err := c.api.CreateChatCompletion(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}
	return answer, nil
}
