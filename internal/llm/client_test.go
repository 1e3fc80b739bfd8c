package llm

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexwatch/lexwatch/internal/domain"
)

type fakeAPI struct {
	got []openai.ChatCompletionMessage
	out string
	err error
}

func (f *fakeAPI) CreateChatCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	f.got = messages
	return f.out, f.err
}

func TestClient_Answer(t *testing.T) {
	api := &fakeAPI{out: "grounded answer [1]"}
	client := &Client{api: api, model: DefaultModel}

	history := []domain.Message{
		{Role: domain.RoleSystem, Content: "stale directive from caller"},
		{Role: domain.RoleUser, Content: "earlier question"},
		{Role: domain.RoleAssistant, Content: "earlier answer"},
	}

	answer, err := client.Answer(context.Background(), "You answer from sources.", history, "What changed?", "[1] AI Act passed — EP")
	require.NoError(t, err)
	assert.Equal(t, "grounded answer [1]", answer)

	require.Len(t, api.got, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, api.got[0].Role)
	assert.Equal(t, "You answer from sources.", api.got[0].Content)

	// Prior system turns from the caller are excluded.
	for _, m := range api.got[1:] {
		assert.NotEqual(t, openai.ChatMessageRoleSystem, m.Role)
	}

	assert.Equal(t, "earlier question", api.got[1].Content)
	assert.Equal(t, "earlier answer", api.got[2].Content)

	final := api.got[3]
	assert.Equal(t, openai.ChatMessageRoleUser, final.Role)
	assert.Contains(t, final.Content, "What changed?")
	assert.Contains(t, final.Content, "[1] AI Act passed — EP")
}

func TestClient_Answer_NoContextBlock(t *testing.T) {
	api := &fakeAPI{out: "answer"}
	client := &Client{api: api, model: DefaultModel}

	_, err := client.Answer(context.Background(), "directive", nil, "question", "")
	require.NoError(t, err)

	require.Len(t, api.got, 2)
	assert.Equal(t, "question", api.got[1].Content)
}

func TestClient_Answer_ProviderError(t *testing.T) {
	api := &fakeAPI{err: errors.New("rate limited")}
	client := &Client{api: api, model: DefaultModel}

	_, err := client.Answer(context.Background(), "directive", nil, "question", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestNewClientWithConfig_DefaultModel(t *testing.T) {
	client := NewClientWithConfig(Config{APIKey: "sk-test"})
	assert.Equal(t, DefaultModel, client.model)

	client = NewClientWithConfig(Config{APIKey: "sk-test", Model: "gpt-4o"})
	assert.Equal(t, "gpt-4o", client.model)
}
