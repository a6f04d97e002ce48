package completion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-session/config"
)

func TestEchoAskRepliesWithLastLine(t *testing.T) {
	e := NewEchoCompleter(400)

	result, err := e.Ask(context.Background(), "s1", "Human: hi\nBot: hello\nwhat now?")
	require.NoError(t, err)

	assert.Equal(t, "Echo: what now?", result.Text)
	assert.Equal(t, approxTokens("Human: hi\nBot: hello\nwhat now?"), result.PromptTokens)
	assert.Equal(t, approxTokens("Echo: what now?"), result.ResponseTokens)
	assert.Equal(t, 400, e.MaxTokens())
}

func TestEchoSummarizeKeepsTwoWords(t *testing.T) {
	e := NewEchoCompleter(400)

	label, err := e.Summarize(context.Background(), "s1", "  kafka consumer groups explained ")
	require.NoError(t, err)
	assert.Equal(t, "kafka consumer", label)
}

func TestEchoHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEchoCompleter(10).Ask(ctx, "s1", "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApproxTokens(t *testing.T) {
	assert.Equal(t, 0, approxTokens(""))
	assert.Equal(t, 1, approxTokens("abc"))
	assert.Equal(t, 1, approxTokens("abcd"))
	assert.Equal(t, 2, approxTokens("abcde"))
}

func TestNewSelectsProvider(t *testing.T) {
	c, err := New(context.Background(), config.LLMConfig{Provider: "echo", MaxTokens: 64}, nil, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &EchoCompleter{}, c)
	assert.Equal(t, 64, c.MaxTokens())

	_, err = New(context.Background(), config.LLMConfig{Provider: "openai"}, nil, nil, nil)
	assert.Error(t, err)

	t.Setenv("GEMINI_API_KEY", "")
	_, err = New(context.Background(), config.LLMConfig{Provider: "google"}, nil, nil, nil)
	assert.Error(t, err)
}
